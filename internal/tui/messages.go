package tui

import (
	"github.com/MKhiriev/neuro-vault/models"
)

type notesSavedMsg struct {
	record models.VaultRecord
	err    error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
