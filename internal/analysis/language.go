package analysis

import (
	"path/filepath"
	"strings"
)

// languageByExtension maps file extensions to the language tag used in the
// prompt's fenced code blocks.
var languageByExtension = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "jsx",
	".tsx":   "tsx",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".java":  "java",
	".c":     "c",
	".cpp":   "cpp",
	".h":     "c",
	".hpp":   "cpp",
	".go":    "go",
	".rs":    "rust",
	".php":   "php",
	".rb":    "ruby",
	".swift": "swift",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".sh":    "bash",
	".md":    "markdown",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
}

// DetectLanguage guesses the programming language of a file from its
// extension. Unknown extensions fall back to "text".
func DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return "text"
}
