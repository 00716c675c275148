package domain

import "sort"

// Tag is a detected technology marker such as "framework:angular".
type Tag string

const (
	TagNode       Tag = "runtime:node"
	TagTypeScript Tag = "lang:typescript"
	TagPython     Tag = "lang:python"
	TagGo         Tag = "lang:go"

	TagAngular Tag = "framework:angular"
	TagReact   Tag = "framework:react"
	TagVue     Tag = "framework:vue"
	TagSvelte  Tag = "framework:svelte"
	TagVite    Tag = "build:vite"

	TagPrimeNG  Tag = "ui:primeng"
	TagPXBlue   Tag = "ui:pxblue"
	TagBLUI     Tag = "ui:brightlayer"
	TagShoelace Tag = "ui:shoelace"
	TagDaisyUI  Tag = "ui:daisyui"
	TagMUI      Tag = "ui:mui"
	TagAntd     Tag = "ui:antd"
	TagChakra   Tag = "ui:chakra"
	TagTailwind Tag = "style:tailwind"

	TagExpress    Tag = "backend:express"
	TagFastify    Tag = "backend:fastify"
	TagNest       Tag = "backend:nestjs"
	TagServerless Tag = "backend:serverless"
	TagFastAPI    Tag = "backend:fastapi"
	TagFlask      Tag = "backend:flask"
	TagDjango     Tag = "backend:django"
	TagStreamlit  Tag = "backend:streamlit"

	TagGAS Tag = "platform:gas"

	// Derived tags.
	TagFrontend Tag = "frontend"
	TagBackend  Tag = "backend"
)

var frontendTags = []Tag{
	TagAngular, TagReact, TagVue, TagSvelte, TagVite,
	TagPrimeNG, TagPXBlue, TagBLUI, TagShoelace, TagDaisyUI, TagMUI, TagAntd, TagChakra, TagTailwind,
	TagGAS,
}

var backendTags = []Tag{
	TagExpress, TagFastify, TagNest, TagServerless,
	TagFastAPI, TagFlask, TagDjango, TagStreamlit,
	TagPython, TagGo,
}

// ProjectProfile is the immutable set of technology tags detected for a root.
type ProjectProfile struct {
	Root string `json:"root"`
	Tags []Tag  `json:"tags"`
}

// NewProfile builds a profile with deduplicated, sorted tags and the derived
// frontend/backend tags filled in.
func NewProfile(root string, tags ...Tag) ProjectProfile {
	set := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		if t != "" {
			set[t] = true
		}
	}
	for _, t := range frontendTags {
		if set[t] {
			set[TagFrontend] = true
			break
		}
	}
	for _, t := range backendTags {
		if set[t] {
			set[TagBackend] = true
			break
		}
	}

	out := make([]Tag, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return ProjectProfile{Root: root, Tags: out}
}

func (p ProjectProfile) Has(tag Tag) bool {
	i := sort.Search(len(p.Tags), func(i int) bool { return p.Tags[i] >= tag })
	return i < len(p.Tags) && p.Tags[i] == tag
}

// HasAny reports whether the profile carries at least one of tags.
func (p ProjectProfile) HasAny(tags ...Tag) bool {
	for _, t := range tags {
		if p.Has(t) {
			return true
		}
	}
	return false
}

func (p ProjectProfile) IsEmpty() bool { return len(p.Tags) == 0 }

// Union merges two profiles, keeping p's root.
func (p ProjectProfile) Union(other ProjectProfile) ProjectProfile {
	all := append(append([]Tag{}, p.Tags...), other.Tags...)
	return NewProfile(p.Root, all...)
}

// DetectionGap records a manifest that could not be read or parsed.
type DetectionGap struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Detection is the detector's output: the profile plus any gaps.
type Detection struct {
	Profile ProjectProfile `json:"profile"`
	Gaps    []DetectionGap `json:"gaps,omitempty"`
}
