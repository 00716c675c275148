package rules

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/fatih/camelcase"
	"golang.org/x/mod/modfile"

	"github.com/dashlint/dashlint/internal/domain"
)

// QualityRules returns the code-quality catalog.
func QualityRules(opts Options) []Rule {
	maxLines := opts.MaxFileLines
	if maxLines <= 0 {
		maxLines = domain.DefaultMaxFileLines
	}

	return []Rule{
		{
			Key:         "quality/file-too-long",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: fmt.Sprintf("file exceeds %d lines", maxLines),
			Extensions:  sourceExts,
			Check:       fileTooLong(maxLines),
		},
		{
			Key:         "quality/simplified-chinese",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "simplified Chinese characters in a traditional Chinese codebase",
			Extensions:  join(scriptExts, styleExts, []string{".py", ".html", ".vue"}),
			Check:       checkSimplifiedChinese,
		},
		{
			Key:         "quality/file-naming",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityInfo,
			Description: "file name is not kebab-case, PascalCase or camelCase",
			Extensions:  []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"},
			Check:       checkFileNaming,
		},
		{
			Key:         "quality/emoji-in-code",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "emoji used as an icon; use an icon font",
			Extensions:  scriptExts,
			Check:       checkEmoji,
		},
		{
			Key:         "quality/console-log",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityInfo,
			Description: "console.log left in application code",
			Extensions:  join(scriptExts, []string{".vue", ".svelte"}),
			Check:       checkConsoleLog,
		},
		{
			Key:         "quality/todo-marker",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityInfo,
			Description: "TODO/FIXME marker",
			Extensions:  sourceExts,
			Check: func(f File) []Match {
				return lineMatches(f.Content, todoRe, false, func(line string) string {
					return fmt.Sprintf("%s marker", todoRe.FindStringSubmatch(line)[2])
				})
			},
		},
		{
			Key:         "quality/duplicate-class",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "element has two class attributes; the second is ignored",
			Extensions:  markupExts,
			Check:       checkDuplicateClass,
			Fix:         fixDuplicateClass,
		},
		{
			Key:         "quality/empty-event-handler",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityError,
			Description: "addEventListener called with an empty event name",
			Extensions:  scriptExts,
			Check:       checkEmptyEventHandler,
			Fix:         fixEmptyEventHandler,
		},
		{
			Key:         "quality/unclosed-textarea",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityError,
			Description: "<textarea> is never closed",
			Extensions:  markupExts,
			Check:       checkUnclosedTextarea,
			Fix:         fixUnclosedTextarea,
		},
		{
			Key:         "quality/unclosed-tag",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityError,
			Description: "element opened more often than closed",
			Extensions:  markupExts,
			Check:       checkUnclosedTags,
		},
		{
			Key:         "quality/primeng-module-import",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityError,
			Description: "PrimeNG component used without importing its module",
			Profiles:    []domain.Tag{domain.TagPrimeNG},
			Names:       []string{"*.component.ts"},
			Check:       checkPrimeNGImports,
		},
		{
			Key:         "quality/injectable-provided-in",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "Angular service is not providedIn: 'root'",
			Profiles:    []domain.Tag{domain.TagAngular},
			Names:       []string{"*.service.ts"},
			Check:       checkProvidedIn,
			Fix:         fixProvidedIn,
		},
		{
			Key:         "quality/api-response-envelope",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "API handler responds without the { success } envelope",
			Profiles:    []domain.Tag{domain.TagServerless, domain.TagExpress, domain.TagFastify, domain.TagNest},
			Extensions:  []string{".js", ".mjs", ".cjs", ".ts"},
			Check:       checkResponseEnvelope,
		},
		{
			Key:         "quality/api-error-handling",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "API handler without try/catch or with a catch that never logs",
			Profiles:    []domain.Tag{domain.TagServerless, domain.TagExpress, domain.TagFastify, domain.TagNest},
			Extensions:  []string{".js", ".mjs", ".cjs", ".ts"},
			Check:       checkAPIErrorHandling,
		},
		{
			Key:         "quality/gas-v8-runtime",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "Apps Script project does not run on the V8 runtime",
			Profiles:    []domain.Tag{domain.TagGAS},
			Names:       []string{"appsscript.json"},
			Check:       checkGASRuntime,
			Fix:         fixGASRuntime,
		},
		{
			Key:         "quality/unpinned-requirement",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "Python requirement without a version constraint",
			Profiles:    []domain.Tag{domain.TagPython},
			Names:       []string{"requirements.txt", "requirements-*.txt"},
			Check:       checkUnpinnedRequirements,
		},
		{
			Key:         "quality/go-local-replace",
			Category:    domain.CategoryQuality,
			Severity:    domain.SeverityWarning,
			Description: "go.mod replaces a module with a local directory",
			Profiles:    []domain.Tag{domain.TagGo},
			Names:       []string{"go.mod"},
			Check:       checkGoLocalReplace,
		},
	}
}

func fileTooLong(maxLines int) CheckFunc {
	return func(f File) []Match {
		n := lineCount(f.Content)
		if n <= maxLines {
			return nil
		}
		return []Match{{Message: fmt.Sprintf("file has %d lines (limit %d); split it", n, maxLines)}}
	}
}

// simplifiedChars are common simplified forms with a distinct traditional form.
const simplifiedChars = "这个们为与来对时后进发会过着动机关开门问间还应该当电并长设现实点将从头见两无产业经变虽统义语说话认让请马车书学习写医药师"

func checkSimplifiedChinese(f File) []Match {
	for i, line := range f.Lines() {
		if !strings.ContainsAny(line, simplifiedChars) {
			continue
		}
		var found []string
		for _, r := range f.Content {
			if strings.ContainsRune(simplifiedChars, r) {
				found = append(found, string(r))
			}
		}
		found = uniqueStrings(found)
		if len(found) > 5 {
			found = found[:5]
		}
		return []Match{{Line: i + 1, Message: fmt.Sprintf("simplified Chinese characters: %s", strings.Join(found, ""))}}
	}
	return nil
}

var (
	kebabRe  = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	pascalRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	camelRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
)

func validNameSegment(seg string) bool {
	seg = strings.TrimLeft(seg, "_")
	if seg == "" || strings.HasPrefix(seg, "[") {
		return true
	}
	return kebabRe.MatchString(seg) || pascalRe.MatchString(seg) || camelRe.MatchString(seg)
}

func checkFileNaming(f File) []Match {
	base := f.Base()
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for _, seg := range strings.Split(stem, ".") {
		if !validNameSegment(seg) {
			return []Match{{Message: fmt.Sprintf("%s should be kebab-case, PascalCase or camelCase (e.g. %s)", base, suggestFileName(stem)+ext)}}
		}
	}
	return nil
}

// suggestFileName converts each dot-separated segment to kebab-case.
func suggestFileName(stem string) string {
	segs := strings.Split(stem, ".")
	for i, seg := range segs {
		var words []string
		for _, w := range camelcase.Split(seg) {
			w = slug(w)
			if w == "" {
				continue
			}
			if isDigits(w) && len(words) > 0 {
				words[len(words)-1] += w
				continue
			}
			words = append(words, w)
		}
		segs[i] = strings.Join(words, "-")
	}
	return strings.Join(segs, ".")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}\x{1FA00}-\x{1FAFF}\x{2600}-\x{26FF}\x{2702}-\x{27B0}]`)

func checkEmoji(f File) []Match {
	var out []Match
	for i, line := range f.Lines() {
		if isCommentLine(line) {
			continue
		}
		found := emojiRe.FindAllString(line, -1)
		if len(found) == 0 {
			continue
		}
		out = append(out, Match{Line: i + 1, Message: fmt.Sprintf("emoji %s used in code; use an icon font", strings.Join(uniqueStrings(found), ""))})
	}
	return out
}

var consoleLogRe = regexp.MustCompile(`\bconsole\.log\s*\(`)

func isTestOrScript(p string) bool {
	base := path.Base(p)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		switch seg {
		case "test", "tests", "__tests__", "scripts", "e2e":
			return true
		}
	}
	return false
}

func checkConsoleLog(f File) []Match {
	if isTestOrScript(f.Path) {
		return nil
	}
	return lineMatches(f.Content, consoleLogRe, true, func(string) string {
		return "console.log left in code"
	})
}

var todoRe = regexp.MustCompile(`(//|#|/\*|<!--)\s*(TODO|FIXME|XXX|HACK)\b`)

var dupClassRe = regexp.MustCompile(`class="([^"]*)"\s+class="([^"]*)"`)

func checkDuplicateClass(f File) []Match {
	var out []Match
	for _, loc := range dupClassRe.FindAllStringIndex(f.Content, -1) {
		out = append(out, Match{Line: lineAt(f.Content, loc[0]), Message: "duplicate class attributes; merge them"})
	}
	return out
}

func mergeClassAttr(m string) string {
	sub := dupClassRe.FindStringSubmatch(m)
	if isDynamic(sub[1]) || isDynamic(sub[2]) {
		return `class="` + strings.TrimSpace(sub[1]+" "+sub[2]) + `"`
	}
	classes := uniqueStrings(strings.Fields(sub[1] + " " + sub[2]))
	return `class="` + strings.Join(classes, " ") + `"`
}

func fixDuplicateClass(f File) (string, error) {
	out := f.Content
	for {
		next := dupClassRe.ReplaceAllStringFunc(out, mergeClassAttr)
		if next == out {
			break
		}
		out = next
	}
	if out == f.Content {
		return "", domain.ErrNoMatch
	}
	return out, nil
}

var emptyHandlerRe = regexp.MustCompile(`addEventListener\s*\(\s*(?:''|""|` + "``" + `)`)

func checkEmptyEventHandler(f File) []Match {
	var out []Match
	for i, line := range f.Lines() {
		if isCommentLine(line) {
			continue
		}
		loc := emptyHandlerRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		msg := "addEventListener('') never fires; remove or name the event"
		err := emptyHandlerRefusal(i+1, line, loc)
		if err != nil {
			msg += ": " + err.Error()
		}
		out = append(out, Match{Line: i + 1, Message: msg, ManualOnly: err != nil})
	}
	return out
}

// emptyHandlerRefusal returns why the statement at loc cannot be commented
// out on its own, or nil when it can.
func emptyHandlerRefusal(lineNo int, line string, loc []int) error {
	prefix := line[:loc[0]]
	trimmed := strings.TrimRight(line, " \t\r")
	switch {
	case strings.Count(line, "(") != strings.Count(line, ")"):
		return fmt.Errorf("line %d: statement spans several lines: %w", lineNo, domain.ErrUnsupportedPattern)
	case strings.ContainsAny(prefix, ";{}"), strings.Count(line, ";") > 1:
		return fmt.Errorf("line %d: shares the line with other statements: %w", lineNo, domain.ErrAmbiguousMatch)
	case !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, ")"):
		return fmt.Errorf("line %d: %w", lineNo, domain.ErrUnsupportedPattern)
	}
	return nil
}

// fixEmptyEventHandler comments out single-line statements only.
func fixEmptyEventHandler(f File) (string, error) {
	lines := f.Lines()
	changed := false
	for i, line := range lines {
		if isCommentLine(line) {
			continue
		}
		loc := emptyHandlerRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if err := emptyHandlerRefusal(i+1, line, loc); err != nil {
			return "", err
		}
		indent := leadingSpace(line, 0)
		lines[i] = indent + "// " + line[len(indent):]
		changed = true
	}
	if !changed {
		return "", domain.ErrNoMatch
	}
	return strings.Join(lines, "\n"), nil
}

var textareaTokRe = regexp.MustCompile(`(?i)<textarea\b[^>]*>|</textarea\s*>`)

// unclosedTextareas returns [start, end) offsets of textarea open tags that
// are not followed by a closing tag before the next textarea.
func unclosedTextareas(content string) [][]int {
	toks := textareaTokRe.FindAllStringIndex(content, -1)
	var out [][]int
	for i, t := range toks {
		tok := content[t[0]:t[1]]
		if strings.HasPrefix(tok, "</") || strings.HasSuffix(tok, "/>") {
			continue
		}
		if i+1 < len(toks) && strings.HasPrefix(content[toks[i+1][0]:toks[i+1][1]], "</") {
			continue
		}
		out = append(out, t)
	}
	return out
}

func checkUnclosedTextarea(f File) []Match {
	var out []Match
	for _, t := range unclosedTextareas(f.Content) {
		out = append(out, Match{Line: lineAt(f.Content, t[0]), Message: "<textarea> is never closed"})
	}
	return out
}

// fixUnclosedTextarea closes a textarea only when nothing but whitespace
// follows the open tag; otherwise the end of its content is unknowable.
func fixUnclosedTextarea(f File) (string, error) {
	opens := unclosedTextareas(f.Content)
	if len(opens) == 0 {
		return "", domain.ErrNoMatch
	}
	content := f.Content
	for i := len(opens) - 1; i >= 0; i-- {
		end := opens[i][1]
		rest := content[end:]
		next := strings.IndexByte(rest, '<')
		if next < 0 {
			next = len(rest)
		}
		if strings.TrimSpace(rest[:next]) != "" {
			return "", fmt.Errorf("line %d: textarea has inline content: %w", lineAt(content, opens[i][0]), domain.ErrAmbiguousMatch)
		}
		content = content[:end] + "</textarea>" + content[end:]
	}
	return content, nil
}

var blockTags = []string{"select", "table", "ul", "ol"}

var (
	blockOpenRes  = map[string]*regexp.Regexp{}
	blockCloseRes = map[string]*regexp.Regexp{}
)

func init() {
	for _, t := range blockTags {
		blockOpenRes[t] = regexp.MustCompile(`(?i)<` + t + `\b[^>]*>`)
		blockCloseRes[t] = regexp.MustCompile(`(?i)</` + t + `\s*>`)
	}
}

func checkUnclosedTags(f File) []Match {
	var out []Match
	for _, t := range blockTags {
		var opens [][]int
		for _, loc := range blockOpenRes[t].FindAllStringIndex(f.Content, -1) {
			if !strings.HasSuffix(f.Content[loc[0]:loc[1]], "/>") {
				opens = append(opens, loc)
			}
		}
		closes := len(blockCloseRes[t].FindAllStringIndex(f.Content, -1))
		if len(opens) > closes {
			last := opens[len(opens)-1]
			out = append(out, Match{
				Line:    lineAt(f.Content, last[0]),
				Message: fmt.Sprintf("<%s> opened %d times but closed %d times", t, len(opens), closes),
			})
		}
	}
	return out
}

var primeNGModules = []struct {
	selector *regexp.Regexp
	name     string
	module   string
}{
	{regexp.MustCompile(`<p-table\b`), "p-table", "TableModule"},
	{regexp.MustCompile(`<p-button\b`), "p-button", "ButtonModule"},
	{regexp.MustCompile(`<p-dialog\b`), "p-dialog", "DialogModule"},
	{regexp.MustCompile(`<p-drawer\b`), "p-drawer", "DrawerModule"},
	{regexp.MustCompile(`<p-inputtext\b`), "p-inputtext", "InputTextModule"},
	{regexp.MustCompile(`\bpInputText\b`), "pInputText", "InputTextModule"},
	{regexp.MustCompile(`<p-select\b`), "p-select", "SelectModule"},
	{regexp.MustCompile(`<p-datepicker\b`), "p-datepicker", "DatePickerModule"},
	{regexp.MustCompile(`<p-inputnumber\b`), "p-inputnumber", "InputNumberModule"},
	{regexp.MustCompile(`<p-tag\b`), "p-tag", "TagModule"},
	{regexp.MustCompile(`<p-tabs\b`), "p-tabs", "TabsModule"},
}

func checkPrimeNGImports(f File) []Match {
	var out []Match
	for _, m := range primeNGModules {
		loc := m.selector.FindStringIndex(f.Content)
		if loc == nil || strings.Contains(f.Content, m.module) {
			continue
		}
		out = append(out, Match{
			Line:    lineAt(f.Content, loc[0]),
			Message: fmt.Sprintf("uses %s but does not import %s", m.name, m.module),
		})
	}
	return out
}

var (
	injectableRe      = regexp.MustCompile(`@Injectable\s*\(`)
	emptyInjectableRe = regexp.MustCompile(`@Injectable\s*\(\s*\)`)
	emptyAtRe         = regexp.MustCompile(`^@Injectable\s*\(\s*\)`)
	providedInRootRe  = regexp.MustCompile(`providedIn\s*:\s*['"]root['"]`)
)

func checkProvidedIn(f File) []Match {
	if providedInRootRe.MatchString(f.Content) {
		return nil
	}
	var out []Match
	for _, loc := range injectableRe.FindAllStringIndex(f.Content, -1) {
		empty := emptyAtRe.MatchString(f.Content[loc[0]:])
		out = append(out, Match{
			Line:       lineAt(f.Content, loc[0]),
			Message:    "use @Injectable({ providedIn: 'root' })",
			ManualOnly: !empty,
		})
	}
	return out
}

func fixProvidedIn(f File) (string, error) {
	all := injectableRe.FindAllStringIndex(f.Content, -1)
	switch {
	case len(all) == 0:
		return "", domain.ErrNoMatch
	case len(all) > 1:
		return "", fmt.Errorf("%d @Injectable decorators: %w", len(all), domain.ErrAmbiguousMatch)
	}
	loc := emptyInjectableRe.FindStringIndex(f.Content)
	if loc == nil {
		return "", fmt.Errorf("@Injectable already has options: %w", domain.ErrUnsupportedPattern)
	}
	return f.Content[:loc[0]] + "@Injectable({ providedIn: 'root' })" + f.Content[loc[1]:], nil
}

var (
	resJSONRe = regexp.MustCompile(`res\.(?:status\([^)]*\)\.)?json\s*\(`)
	successRe = regexp.MustCompile(`success\s*:\s*(?:true|false)`)
)

func isAPIPath(p string) bool {
	return strings.HasPrefix(p, "api/") || strings.Contains(p, "/api/")
}

func checkResponseEnvelope(f File) []Match {
	if !isAPIPath(f.Path) {
		return nil
	}
	calls := resJSONRe.FindAllStringIndex(f.Content, -1)
	envelopes := len(successRe.FindAllStringIndex(f.Content, -1))
	if len(calls) == 0 || envelopes >= len(calls) {
		return nil
	}
	return []Match{{
		Line:    lineAt(f.Content, calls[0][0]),
		Message: fmt.Sprintf("%d responses but only %d use { success: ... }", len(calls), envelopes),
	}}
}

var (
	asyncRe    = regexp.MustCompile(`\basync\b`)
	tryRe      = regexp.MustCompile(`\btry\s*\{`)
	catchRe    = regexp.MustCompile(`\bcatch\s*(?:\([^)]*\))?\s*\{`)
	errorLogRe = regexp.MustCompile(`console\.error|(?:logger|log)\.(?:error|warn)|logSystemAudit`)
)

func checkAPIErrorHandling(f File) []Match {
	if !isAPIPath(f.Path) {
		return nil
	}
	var out []Match
	if loc := asyncRe.FindStringIndex(f.Content); loc != nil && !tryRe.MatchString(f.Content) {
		out = append(out, Match{Line: lineAt(f.Content, loc[0]), Message: "async handler without try/catch; failures escape as unhandled rejections"})
	}
	if loc := catchRe.FindStringIndex(f.Content); loc != nil && !errorLogRe.MatchString(f.Content) {
		out = append(out, Match{Line: lineAt(f.Content, loc[0]), Message: "catch block never logs the error"})
	}
	return out
}

var gasRuntimeRe = regexp.MustCompile(`("runtimeVersion"\s*:\s*)"DEPRECATED_ES5"`)

func checkGASRuntime(f File) []Match {
	var manifest struct {
		RuntimeVersion string `json:"runtimeVersion"`
	}
	if err := json.Unmarshal([]byte(f.Content), &manifest); err != nil {
		return []Match{{Message: fmt.Sprintf("appsscript.json is not valid JSON: %v", err), ManualOnly: true}}
	}
	switch manifest.RuntimeVersion {
	case "V8":
		return nil
	case "":
		return []Match{{Message: "no runtimeVersion; Apps Script falls back to the deprecated ES5 runtime", ManualOnly: true}}
	}
	locs := gasRuntimeRe.FindAllStringIndex(f.Content, -1)
	m := Match{Message: fmt.Sprintf("runtimeVersion %q; use \"V8\"", manifest.RuntimeVersion), ManualOnly: len(locs) != 1}
	if len(locs) > 0 {
		m.Line = lineAt(f.Content, locs[0][0])
	}
	return []Match{m}
}

func fixGASRuntime(f File) (string, error) {
	locs := gasRuntimeRe.FindAllStringSubmatchIndex(f.Content, -1)
	switch len(locs) {
	case 0:
		return "", domain.ErrNoMatch
	case 1:
	default:
		return "", fmt.Errorf("%d runtimeVersion keys: %w", len(locs), domain.ErrAmbiguousMatch)
	}
	loc := locs[0]
	return f.Content[:loc[0]] + f.Content[loc[2]:loc[3]] + `"V8"` + f.Content[loc[1]:], nil
}

var versionOps = []string{"==", ">=", "<=", "~=", "==="}

func checkUnpinnedRequirements(f File) []Match {
	var out []Match
	for i, raw := range f.Lines() {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "git+") || strings.Contains(line, "://") {
			continue
		}
		pinned := false
		for _, op := range versionOps {
			if strings.Contains(line, op) {
				pinned = true
				break
			}
		}
		if pinned {
			continue
		}
		parts := strings.FieldsFunc(line, func(r rune) bool {
			return r == '<' || r == '>' || r == '=' || r == '[' || r == ';'
		})
		if len(parts) == 0 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		out = append(out, Match{Line: i + 1, Message: fmt.Sprintf("requirement %q has no version constraint", name)})
	}
	return out
}

func checkGoLocalReplace(f File) []Match {
	mf, err := modfile.Parse(f.Path, []byte(f.Content), nil)
	if err != nil {
		return nil
	}
	var out []Match
	for _, r := range mf.Replace {
		if r.New.Version != "" || !modfile.IsDirectoryPath(r.New.Path) {
			continue
		}
		line := 0
		if r.Syntax != nil {
			line = r.Syntax.Start.Line
		}
		out = append(out, Match{
			Line:    line,
			Message: fmt.Sprintf("replace %s => %s points at a local directory", r.Old.Path, r.New.Path),
		})
	}
	return out
}
