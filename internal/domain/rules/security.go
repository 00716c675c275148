package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/dashlint/dashlint/internal/domain"
)

type secretPattern struct {
	desc string
	re   *regexp.Regexp
}

var (
	apiKeyRe      = regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[=:]\s*["']?[a-zA-Z0-9_-]{20,}`)
	secretTokenRe = regexp.MustCompile(`(?i)(secret|token)\s*[=:]\s*["']?[a-zA-Z0-9_-]{20,}`)
	passwordRe    = regexp.MustCompile(`(?i)password\s*[=:]\s*["'][^"']+["']`)

	providerPatterns = []secretPattern{
		{"OpenAI API key", regexp.MustCompile(`sk-[a-zA-Z0-9]{48}`)},
		{"Stripe live key", regexp.MustCompile(`sk_live_[a-zA-Z0-9]{24,}`)},
		{"GitHub token", regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`)},
		{"Clerk secret key", regexp.MustCompile(`CLERK_SECRET_KEY\s*=\s*["']?sk_[a-zA-Z0-9_-]{20,}`)},
	}
)

// sensitiveFiles are names that must never be committed.
var sensitiveFiles = []string{
	".env", ".env.*",
	"credentials.json", "service-account.json", "private.key", "*.pem",
}

// envTemplates are committed on purpose.
var envTemplates = map[string]bool{
	".env.example": true, ".env.sample": true, ".env.template": true, ".env.dist": true,
}

// SecurityRules flags secrets and sensitive files. Secrets are never
// rewritten; only the .gitignore entries can be fixed.
func SecurityRules() []Rule {
	return []Rule{
		{
			Key:         "security/hardcoded-api-key",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Description: "API key assigned to a literal",
			Extensions:  secretExts,
			Check:       secretCheck(apiKeyRe, "API key"),
		},
		{
			Key:         "security/hardcoded-secret",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Description: "secret or token assigned to a literal",
			Extensions:  secretExts,
			Check:       secretCheck(secretTokenRe, "secret/token"),
		},
		{
			Key:         "security/hardcoded-password",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Description: "password assigned to a string literal",
			Extensions:  secretExts,
			Check:       secretCheck(passwordRe, "password"),
		},
		{
			Key:         "security/provider-token",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Description: "provider credential in source",
			Extensions:  secretExts,
			Check:       checkProviderTokens,
		},
		{
			Key:         "security/api-missing-auth",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityWarning,
			Description: "API handler without an authentication guard",
			Profiles:    []domain.Tag{domain.TagServerless, domain.TagExpress, domain.TagFastify, domain.TagNest},
			Extensions:  []string{".js", ".mjs", ".cjs", ".ts"},
			Check:       checkAPIAuth,
		},
		{
			Key:         "security/sensitive-file",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityError,
			Description: "sensitive file not covered by .gitignore",
			Names:       sensitiveFiles,
			Check:       checkSensitiveFile,
		},
		{
			Key:         "security/gitignore-entries",
			Category:    domain.CategorySecurity,
			Severity:    domain.SeverityWarning,
			Description: ".gitignore is missing required entries",
			Names:       []string{".gitignore"},
			Check:       checkGitIgnoreEntries,
			Fix:         fixGitIgnoreEntries,
		},
	}
}

// secretCheck leaves lines holding a provider credential to
// security/provider-token, so one literal yields one finding.
func secretCheck(re *regexp.Regexp, desc string) CheckFunc {
	return func(f File) []Match {
		var out []Match
		for i, line := range strings.Split(f.Content, "\n") {
			if !re.MatchString(line) || providerToken(line) != "" {
				continue
			}
			out = append(out, Match{Line: i + 1, Message: fmt.Sprintf("hardcoded %s; load it from the environment", desc)})
		}
		return out
	}
}

// providerToken names the first provider credential found in line.
func providerToken(line string) string {
	for _, p := range providerPatterns {
		if p.re.MatchString(line) {
			return p.desc
		}
	}
	return ""
}

func checkProviderTokens(f File) []Match {
	var out []Match
	for i, line := range strings.Split(f.Content, "\n") {
		if desc := providerToken(line); desc != "" {
			out = append(out, Match{Line: i + 1, Message: fmt.Sprintf("%s in source", desc)})
		}
	}
	return out
}

func checkSensitiveFile(f File) []Match {
	if envTemplates[f.Base()] {
		return nil
	}
	if gitIgnoreCovers(f.Project.GitIgnore, f.Path) {
		return nil
	}
	return []Match{{Message: fmt.Sprintf("%s is not covered by .gitignore", f.Base())}}
}

// GitIgnorePatterns returns the non-blank, non-comment lines of a
// .gitignore.
func GitIgnorePatterns(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// gitIgnoreCovers is a shallow .gitignore evaluation: patterns without a
// slash match any path segment, negations are ignored.
func gitIgnoreCovers(patterns []string, relPath string) bool {
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "!") {
			continue
		}
		anchored := strings.HasPrefix(p, "/")
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}

		candidates := []string{p, p + "/**"}
		if !anchored && !strings.Contains(p, "/") {
			candidates = append(candidates, "**/"+p, "**/"+p+"/**")
		}
		for _, c := range candidates {
			if ok, _ := doublestar.Match(c, relPath); ok {
				return true
			}
		}
	}
	return false
}

func requiredGitIgnoreEntries(profile domain.ProjectProfile) []string {
	entries := []string{".env"}
	if profile.Has(domain.TagNode) || profile.IsEmpty() {
		entries = append(entries, "node_modules")
	}
	entries = append(entries, "*.log")
	if profile.Has(domain.TagPython) {
		entries = append(entries, "__pycache__")
	}
	return entries
}

func missingGitIgnoreEntries(f File) []string {
	lines := f.Lines()
	var missing []string
	for _, entry := range requiredGitIgnoreEntries(f.Project.Profile) {
		covered := false
		for _, l := range lines {
			p := strings.Trim(strings.TrimSpace(l), "/")
			if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "!") {
				continue
			}
			if ok, _ := doublestar.Match(p, entry); ok {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, entry)
		}
	}
	return missing
}

func checkGitIgnoreEntries(f File) []Match {
	if path.Dir(f.Path) != "." {
		return nil
	}
	missing := missingGitIgnoreEntries(f)
	if len(missing) == 0 {
		return nil
	}
	return []Match{{Message: fmt.Sprintf(".gitignore is missing: %s", strings.Join(missing, ", "))}}
}

func fixGitIgnoreEntries(f File) (string, error) {
	missing := missingGitIgnoreEntries(f)
	if len(missing) == 0 {
		return "", domain.ErrNoMatch
	}
	var b strings.Builder
	b.WriteString(f.Content)
	if f.Content != "" && !strings.HasSuffix(f.Content, "\n") {
		b.WriteString("\n")
	}
	for _, m := range missing {
		b.WriteString(m)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	authGuardRe = regexp.MustCompile(`withApiAuth|withAuth|requireAuth|verifyToken|authenticate|getServerSession|clerkMiddleware|jwt\.verify`)
	handlerRe   = regexp.MustCompile(`export\s+default|module\.exports|export\s+(?:async\s+)?function\s+(?:GET|POST|PUT|PATCH|DELETE)\b`)
)

// publicAPISegments mark endpoints that are meant to be reachable anonymously.
var publicAPISegments = []string{"health", "public", "webhook"}

func checkAPIAuth(f File) []Match {
	if !isAPIPath(f.Path) || strings.Contains(f.Base(), ".test.") || strings.Contains(f.Base(), ".spec.") {
		return nil
	}
	for _, seg := range publicAPISegments {
		if strings.Contains(f.Path, seg) {
			return nil
		}
	}
	loc := handlerRe.FindStringIndex(f.Content)
	if loc == nil || authGuardRe.MatchString(f.Content) {
		return nil
	}
	return []Match{{Line: lineAt(f.Content, loc[0]), Message: "handler is exported without an auth guard such as withApiAuth"}}
}
