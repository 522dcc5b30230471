package invoice

import (
	"fmt"
	"os"
	"path/filepath"

	"mydata/epsilon-export/internal/fileutils"
)

// ResolveFeedPath returns explicit when set. Otherwise it tries
// <dir>/<vat>/invoices.json, then <dir>/<vat>.json, then the most recently
// modified *.json in <dir>/<vat>/.
func ResolveFeedPath(explicit, invoicesDir, vat string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	vatDir := filepath.Join(invoicesDir, vat)
	if path, ok := fileutils.FirstExisting(
		filepath.Join(vatDir, "invoices.json"),
		filepath.Join(invoicesDir, vat+".json"),
	); ok {
		return path, nil
	}
	if path, ok := fileutils.NewestFile(vatDir, ".json"); ok {
		return path, nil
	}
	return "", fmt.Errorf("no invoice feed found for %s under %s: %w", vat, invoicesDir, os.ErrNotExist)
}
