package vault

import (
	"fmt"

	"github.com/MKhiriev/neuro-vault/internal/utils"
)

// SecureDelete overwrites path with random bytes for the configured number
// of passes, fsyncing after each, then removes it. A missing file is not an
// error. See [utils.Shred] for the limits of this guarantee.
func (v *Vault) SecureDelete(path string) error {
	if err := utils.Shred(path, v.shredPasses); err != nil {
		return fmt.Errorf("secure delete: %w", err)
	}

	v.logger.Info().Str("path", path).Int("passes", v.shredPasses).Msg("file securely deleted")
	return nil
}
