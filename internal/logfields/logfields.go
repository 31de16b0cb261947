package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyType     = "type"
	KeySection  = "section"
	KeySymbol   = "symbol"
	KeyArtifact = "artifact"
	KeySpecFile = "spec_file"
	KeyDBFile   = "db_file"
	KeyRunID    = "run_id"
	KeyCount    = "count"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Type(name string) slog.Attr     { return slog.String(KeyType, name) }
func Section(name string) slog.Attr  { return slog.String(KeySection, name) }
func Symbol(name string) slog.Attr   { return slog.String(KeySymbol, name) }
func Artifact(path string) slog.Attr { return slog.String(KeyArtifact, path) }
func SpecFile(path string) slog.Attr { return slog.String(KeySpecFile, path) }
func DBFile(path string) slog.Attr   { return slog.String(KeyDBFile, path) }
func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
