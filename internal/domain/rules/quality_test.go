package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/domain"
	"github.com/dashlint/dashlint/internal/domain/rules"
)

func TestFileTooLong_UsesConfiguredLimit(t *testing.T) {
	reg, err := rules.NewDefault(rules.Options{MaxFileLines: 3})
	require.NoError(t, err)
	r, ok := reg.Get("quality/file-too-long")
	require.True(t, ok)

	assert.Empty(t, r.Check(rules.NewFile("a.py", "a\nb\nc\n")))
	ms := r.Check(rules.NewFile("a.py", "a\nb\nc\nd\n"))
	require.Len(t, ms, 1)
	assert.Equal(t, 0, ms[0].Line)
	assert.Contains(t, ms[0].Message, "4 lines")
}

func TestSimplifiedChinese(t *testing.T) {
	ms := check(t, "quality/simplified-chinese", "src/app.js", "const a = 1;\n// 这个按钮\n")
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Line)

	assert.Empty(t, check(t, "quality/simplified-chinese", "src/app.js", "// 這個按鈕\n"))
}

func TestFileNaming(t *testing.T) {
	for _, name := range []string{
		"src/user-profile.component.ts", "src/UserProfile.tsx", "src/userService.ts",
		"pages/[id].tsx", "pages/_app.tsx", "src/vite-env.d.ts",
	} {
		assert.Empty(t, check(t, "quality/file-naming", name, ""), name)
	}

	ms := check(t, "quality/file-naming", "src/my_component.js", "")
	require.Len(t, ms, 1)
	assert.Contains(t, ms[0].Message, "my-component.js")

	ms = check(t, "quality/file-naming", "src/Foo_Bar.spec.ts", "")
	require.Len(t, ms, 1)
	assert.Contains(t, ms[0].Message, "foo-bar.spec.ts")
}

func TestEmojiInCode(t *testing.T) {
	ms := check(t, "quality/emoji-in-code", "src/table.js", "// 🎉 release\nbtn.innerHTML = '🗑 Delete';\n")
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Line)
}

func TestConsoleLog(t *testing.T) {
	assert.Len(t, check(t, "quality/console-log", "src/app.js", "console.log(x);\n// console.log(y)\n"), 1)
	assert.Empty(t, check(t, "quality/console-log", "src/app.test.js", "console.log(x);\n"))
	assert.Empty(t, check(t, "quality/console-log", "scripts/build.js", "console.log(x);\n"))
}

func TestTodoMarker(t *testing.T) {
	ms := check(t, "quality/todo-marker", "main.go", "package main\n// TODO: remove\n")
	require.Len(t, ms, 1)
	assert.Equal(t, "TODO marker", ms[0].Message)
}

func TestDuplicateClass_FixMerges(t *testing.T) {
	const in = `<div class="a b" class="b c">x</div>` + "\n" + `<i class="x" class="y" class="z"></i>`
	ms := check(t, "quality/duplicate-class", "src/view.html", in)
	require.Len(t, ms, 2)

	out, after := fix(t, "quality/duplicate-class", "src/view.html", in)
	assert.Equal(t, `<div class="a b c">x</div>`+"\n"+`<i class="x y z"></i>`, out)
	assert.Empty(t, after)

	assert.ErrorIs(t, fixErr(t, "quality/duplicate-class", "src/view.html", out), domain.ErrNoMatch)
}

func TestEmptyEventHandler_FixCommentsOut(t *testing.T) {
	const in = "function init() {\n  btn.addEventListener('', () => go());\n}\n"
	assert.Len(t, check(t, "quality/empty-event-handler", "src/main.js", in), 1)

	out, after := fix(t, "quality/empty-event-handler", "src/main.js", in)
	assert.Equal(t, "function init() {\n  // btn.addEventListener('', () => go());\n}\n", out)
	assert.Empty(t, after)
}

func TestEmptyEventHandler_MultiLineIsUnsupported(t *testing.T) {
	const in = "el.addEventListener('', () => {\n  go();\n});\n"
	assert.ErrorIs(t, fixErr(t, "quality/empty-event-handler", "src/main.js", in), domain.ErrUnsupportedPattern)
}

func TestEmptyEventHandler_RefusedLinesAreManual(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"trailing comment", "btn.addEventListener('', onClick) // legacy\n"},
		{"unbalanced parens", "el.addEventListener('', () => {\n"},
		{"several statements", "init(); btn.addEventListener('', onClick);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := check(t, "quality/empty-event-handler", "src/main.js", tt.in)
			require.Len(t, ms, 1)
			assert.True(t, ms[0].ManualOnly)

			r := mustRule(t, "quality/empty-event-handler")
			assert.False(t, r.Finding("src/main.js", ms[0]).Fixable)
			assert.Error(t, fixErr(t, "quality/empty-event-handler", "src/main.js", tt.in))
		})
	}

	ms := check(t, "quality/empty-event-handler", "src/main.js", "btn.addEventListener('', onClick);\n")
	require.Len(t, ms, 1)
	assert.False(t, ms[0].ManualOnly)
}

func TestUnclosedTextarea(t *testing.T) {
	const in = "<form>\n  <textarea name=\"note\">\n  <button>Save</button>\n</form>\n"
	ms := check(t, "quality/unclosed-textarea", "src/form.html", in)
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Line)

	out, after := fix(t, "quality/unclosed-textarea", "src/form.html", in)
	assert.Contains(t, out, `<textarea name="note"></textarea>`)
	assert.Empty(t, after)

	assert.Empty(t, check(t, "quality/unclosed-textarea", "src/form.html", "<textarea>x</textarea>"))
}

func TestUnclosedTextarea_InlineContentIsAmbiguous(t *testing.T) {
	const in = "<textarea>draft text\n<div>next</div>\n"
	assert.ErrorIs(t, fixErr(t, "quality/unclosed-textarea", "src/form.html", in), domain.ErrAmbiguousMatch)
}

func TestUnclosedTag(t *testing.T) {
	ms := check(t, "quality/unclosed-tag", "src/list.js", "html += '<table><tr><td>x</td></tr>';\n")
	require.Len(t, ms, 1)
	assert.Contains(t, ms[0].Message, "<table>")

	assert.Empty(t, check(t, "quality/unclosed-tag", "src/list.js", "<ul><li>a</li></ul>"))
}

func TestPrimeNGModuleImport(t *testing.T) {
	const missing = "@Component({\n  template: `<p-table [value]=\"rows\"></p-table>`\n})\n"
	ms := check(t, "quality/primeng-module-import", "src/app/users.component.ts", missing)
	require.Len(t, ms, 1)
	assert.Contains(t, ms[0].Message, "TableModule")

	const ok = "imports: [TableModule],\n" + missing
	assert.Empty(t, check(t, "quality/primeng-module-import", "src/app/users.component.ts", ok))
}

func TestInjectableProvidedIn(t *testing.T) {
	const in = "@Injectable()\nexport class DataService {}\n"
	ms := check(t, "quality/injectable-provided-in", "src/app/data.service.ts", in)
	require.Len(t, ms, 1)
	assert.False(t, ms[0].ManualOnly)

	out, after := fix(t, "quality/injectable-provided-in", "src/app/data.service.ts", in)
	assert.Equal(t, "@Injectable({ providedIn: 'root' })\nexport class DataService {}\n", out)
	assert.Empty(t, after)

	manual := check(t, "quality/injectable-provided-in", "src/app/data.service.ts", "@Injectable({ providedIn: 'any' })\n")
	require.Len(t, manual, 1)
	assert.True(t, manual[0].ManualOnly)
}

func TestAPIResponseEnvelope(t *testing.T) {
	const in = "module.exports = (req, res) => {\n  if (!ok) return res.json({ error: 'x' });\n  res.status(200).json({ success: true, data });\n};\n"
	ms := check(t, "quality/api-response-envelope", "api/users.js", in)
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Line)

	assert.Empty(t, check(t, "quality/api-response-envelope", "src/users.js", in))
}

func TestUnpinnedRequirement(t *testing.T) {
	const in = "flask==3.0.0\nrequests\n# comment\n-r base.txt\npydantic>=2 # pinned\n"
	ms := check(t, "quality/unpinned-requirement", "requirements.txt", in)
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Line)
	assert.Contains(t, ms[0].Message, `"requests"`)
}

func TestGoLocalReplace(t *testing.T) {
	const in = `module example.com/a

go 1.22

require example.com/b v1.0.0

replace example.com/b => ../b

replace example.com/c => example.com/d v1.2.0
`
	ms := check(t, "quality/go-local-replace", "go.mod", in)
	require.Len(t, ms, 1)
	assert.Equal(t, 7, ms[0].Line)
	assert.Contains(t, ms[0].Message, "../b")
}

func TestAPIErrorHandling(t *testing.T) {
	const bare = "export default async function handler(req, res) {\n  const rows = await db.list();\n  res.json({ success: true, data: rows });\n}\n"
	ms := check(t, "quality/api-error-handling", "api/orders.js", bare)
	require.Len(t, ms, 1)
	assert.Equal(t, 1, ms[0].Line)
	assert.Contains(t, ms[0].Message, "try/catch")

	const silent = "export default async function handler(req, res) {\n  try {\n    await db.list();\n  } catch (err) {\n    res.status(500).json({ success: false });\n  }\n}\n"
	ms = check(t, "quality/api-error-handling", "api/orders.js", silent)
	require.Len(t, ms, 1)
	assert.Equal(t, 4, ms[0].Line)
	assert.Contains(t, ms[0].Message, "never logs")

	logged := strings.Replace(silent, "res.status(500)", "console.error(err);\n    res.status(500)", 1)
	assert.Empty(t, check(t, "quality/api-error-handling", "api/orders.js", logged))
	assert.Empty(t, check(t, "quality/api-error-handling", "src/orders.js", bare))
}

func TestGASRuntime_FixSwitchesToV8(t *testing.T) {
	const in = "{\n  \"timeZone\": \"Asia/Taipei\",\n  \"runtimeVersion\": \"DEPRECATED_ES5\"\n}\n"
	ms := check(t, "quality/gas-v8-runtime", "appsscript.json", in)
	require.Len(t, ms, 1)
	assert.Equal(t, 3, ms[0].Line)
	assert.False(t, ms[0].ManualOnly)

	out, after := fix(t, "quality/gas-v8-runtime", "appsscript.json", in)
	assert.Equal(t, "{\n  \"timeZone\": \"Asia/Taipei\",\n  \"runtimeVersion\": \"V8\"\n}\n", out)
	assert.Empty(t, after)
}

func TestGASRuntime_ManualCases(t *testing.T) {
	missing := check(t, "quality/gas-v8-runtime", "appsscript.json", `{"timeZone": "Asia/Taipei"}`)
	require.Len(t, missing, 1)
	assert.True(t, missing[0].ManualOnly)

	broken := check(t, "quality/gas-v8-runtime", "appsscript.json", `{"runtimeVersion": `)
	require.Len(t, broken, 1)
	assert.True(t, broken[0].ManualOnly)
	assert.Contains(t, broken[0].Message, "not valid JSON")

	assert.Empty(t, check(t, "quality/gas-v8-runtime", "appsscript.json", `{"runtimeVersion": "V8"}`))
}

func TestGASRuntime_NeedsGASProfile(t *testing.T) {
	r := mustRule(t, "quality/gas-v8-runtime")
	assert.False(t, r.AppliesToProfile(domain.NewProfile("/p", domain.TagNode)))
	assert.True(t, r.AppliesToProfile(domain.NewProfile("/p", domain.TagGAS)))
}
