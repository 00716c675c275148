package detector

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/dashlint/dashlint/internal/adapters/outbound/scanner"
	"github.com/dashlint/dashlint/internal/domain"
)

// npmTags maps package.json dependency names to tags.
var npmTags = map[string]domain.Tag{
	"@angular/core":             domain.TagAngular,
	"vite":                      domain.TagVite,
	"react":                     domain.TagReact,
	"vue":                       domain.TagVue,
	"svelte":                    domain.TagSvelte,
	"primeng":                   domain.TagPrimeNG,
	"daisyui":                   domain.TagDaisyUI,
	"@shoelace-style/shoelace":  domain.TagShoelace,
	"@mui/material":             domain.TagMUI,
	"antd":                      domain.TagAntd,
	"@chakra-ui/react":          domain.TagChakra,
	"tailwindcss":               domain.TagTailwind,
	"typescript":                domain.TagTypeScript,
	"express":                   domain.TagExpress,
	"fastify":                   domain.TagFastify,
	"@nestjs/core":              domain.TagNest,
	"@types/google-apps-script": domain.TagGAS,
}

// npmScopes maps package scopes to tags.
var npmScopes = map[string]domain.Tag{
	"@pxblue/":         domain.TagPXBlue,
	"@brightlayer-ui/": domain.TagBLUI,
}

// pythonTags maps Python distribution names to tags.
var pythonTags = map[string]domain.Tag{
	"fastapi":   domain.TagFastAPI,
	"flask":     domain.TagFlask,
	"django":    domain.TagDjango,
	"streamlit": domain.TagStreamlit,
}

// cdnMarkers are substrings of index.html script/link tags.
var cdnMarkers = []struct {
	marker string
	tag    domain.Tag
}{
	{"@shoelace-style/shoelace", domain.TagShoelace},
	{"daisyui", domain.TagDaisyUI},
	{"cdn.tailwindcss.com", domain.TagTailwind},
}

var viteConfigs = []string{"vite.config.js", "vite.config.ts", "vite.config.mjs"}

// skipDirs are never treated as monorepo members.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	"venv":         true,
	"__pycache__":  true,
	"coverage":     true,
}

// maxShallowRead bounds how much of a manifest or HTML page is read.
const maxShallowRead = 256 * 1024

// ManifestDetector implements domain.ProfileDetector by reading a fixed set
// of manifests in the root and its immediate subdirectories.
type ManifestDetector struct{}

func New() *ManifestDetector {
	return &ManifestDetector{}
}

// Detect returns the union of the profiles of projectPath and each of its
// non-ignored immediate subdirectories. Manifests that cannot be read or
// parsed become detection gaps.
func (d *ManifestDetector) Detect(projectPath string, ignorePatterns ...string) (domain.Detection, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return domain.Detection{}, fmt.Errorf("%w: %v", domain.ErrUnreadableRoot, err)
	}
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return domain.Detection{}, fmt.Errorf("%w: %v", domain.ErrUnreadableRoot, err)
	}

	var c collector
	c.detectDir(absPath, "", entries)

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || skipDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if scanner.Ignored(name, true, ignorePatterns) {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(absPath, name))
		if err != nil {
			c.gap(name, err)
			continue
		}
		c.detectDir(filepath.Join(absPath, name), name, sub)
	}

	sort.Slice(c.gaps, func(i, j int) bool { return c.gaps[i].Path < c.gaps[j].Path })
	return domain.Detection{
		Profile: domain.NewProfile(absPath, c.tags...),
		Gaps:    c.gaps,
	}, nil
}

type collector struct {
	tags []domain.Tag
	gaps []domain.DetectionGap
}

func (c *collector) add(tags ...domain.Tag) {
	c.tags = append(c.tags, tags...)
}

func (c *collector) gap(rel string, err error) {
	c.gaps = append(c.gaps, domain.DetectionGap{Path: rel, Reason: err.Error()})
}

func (c *collector) detectDir(dir, rel string, entries []fs.DirEntry) {
	files := make(map[string]bool, len(entries))
	dirs := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			dirs[e.Name()] = true
		} else {
			files[e.Name()] = true
		}
	}
	relPath := func(name string) string { return path.Join(rel, name) }

	if files["package.json"] {
		tags, err := packageJSONTags(filepath.Join(dir, "package.json"))
		if err != nil {
			c.gap(relPath("package.json"), err)
		}
		c.add(tags...)
		if dirs["api"] {
			c.add(domain.TagServerless)
		}
	}
	if files["angular.json"] {
		c.add(domain.TagAngular)
	}
	for _, name := range viteConfigs {
		if files[name] {
			c.add(domain.TagVite)
			break
		}
	}
	if files["vercel.json"] {
		c.add(domain.TagServerless)
	}
	if files["tsconfig.json"] {
		c.add(domain.TagTypeScript)
	}
	if files["appsscript.json"] || files[".clasp.json"] {
		c.add(domain.TagGAS)
	}

	if files["requirements.txt"] {
		c.add(domain.TagPython)
		tags, err := requirementsTags(filepath.Join(dir, "requirements.txt"))
		if err != nil {
			c.gap(relPath("requirements.txt"), err)
		}
		c.add(tags...)
	}
	if files["pyproject.toml"] {
		c.add(domain.TagPython)
		tags, err := pyprojectTags(filepath.Join(dir, "pyproject.toml"))
		if err != nil {
			c.gap(relPath("pyproject.toml"), err)
		}
		c.add(tags...)
	}
	if files["setup.py"] {
		c.add(domain.TagPython)
		data, err := readShallow(filepath.Join(dir, "setup.py"))
		if err != nil {
			c.gap(relPath("setup.py"), err)
		}
		c.add(mentionedPythonTags(strings.ToLower(string(data)))...)
	}

	if files["go.mod"] {
		if err := checkGoMod(filepath.Join(dir, "go.mod")); err != nil {
			c.gap(relPath("go.mod"), err)
		} else {
			c.add(domain.TagGo)
		}
	}

	if files["index.html"] {
		data, err := readShallow(filepath.Join(dir, "index.html"))
		if err != nil {
			c.gap(relPath("index.html"), err)
		}
		html := string(data)
		for _, m := range cdnMarkers {
			if strings.Contains(html, m.marker) {
				c.add(m.tag)
			}
		}
	}
}

func readShallow(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxShallowRead))
}

type packageJSON struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func packageJSONTags(p string) ([]domain.Tag, error) {
	tags := []domain.Tag{domain.TagNode}
	data, err := os.ReadFile(p)
	if err != nil {
		return tags, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return tags, fmt.Errorf("parsing package.json: %w", err)
	}

	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies} {
		for name := range deps {
			if t, ok := npmTags[name]; ok {
				tags = append(tags, t)
			}
			for scope, t := range npmScopes {
				if strings.HasPrefix(name, scope) {
					tags = append(tags, t)
				}
			}
		}
	}
	return tags, nil
}

func requirementsTags(p string) ([]domain.Tag, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tags []domain.Tag
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if t, ok := pythonTags[requirementName(sc.Text())]; ok {
			tags = append(tags, t)
		}
	}
	return tags, sc.Err()
}

// requirementName extracts the lower-cased distribution name from a
// requirement specifier such as "Flask[async]>=3.0 ; python_version>'3.8'".
func requirementName(req string) string {
	req = strings.TrimSpace(req)
	if req == "" || strings.HasPrefix(req, "#") || strings.HasPrefix(req, "-") {
		return ""
	}
	end := strings.IndexFunc(req, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	if end >= 0 {
		req = req[:end]
	}
	return strings.ToLower(req)
}

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func pyprojectTags(p string) ([]domain.Tag, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pyproject.toml: %w", err)
	}

	names := make([]string, 0, len(doc.Project.Dependencies))
	for _, req := range doc.Project.Dependencies {
		names = append(names, requirementName(req))
	}
	for _, group := range doc.Project.OptionalDependencies {
		for _, req := range group {
			names = append(names, requirementName(req))
		}
	}
	for name := range doc.Tool.Poetry.Dependencies {
		names = append(names, strings.ToLower(name))
	}

	var tags []domain.Tag
	for _, n := range names {
		if t, ok := pythonTags[n]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// mentionedPythonTags is the shallow fallback for setup.py, which cannot be
// evaluated.
func mentionedPythonTags(content string) []domain.Tag {
	var tags []domain.Tag
	for name, t := range pythonTags {
		if strings.Contains(content, name) {
			tags = append(tags, t)
		}
	}
	return tags
}

func checkGoMod(p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	f, err := modfile.ParseLax(p, data, nil)
	if err != nil {
		return fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return errors.New("go.mod has no module directive")
	}
	return nil
}
