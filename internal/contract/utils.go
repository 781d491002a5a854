package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Hotness label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text label for a hotness score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return CriticalValue
	case score >= 60:
		return HighValue
	case score >= 40:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, zap.Error(err))
	_ = Logger().Sync()
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message through the shared logger.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}

// GetSourceDBFilePath returns the path to the SQLite DB file for the posting dataset.
func GetSourceDBFilePath() string {
	return homeFile(".skillspot_data.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return homeFile(".skillspot_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	return homeFile(".skillspot_analysis.db")
}

func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
