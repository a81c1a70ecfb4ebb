package app

import (
	"breeder/internal/breeder"
	"breeder/internal/types"
)

type callResultMsg struct {
	result breeder.Result
}

type genotypeMsg struct {
	generation int
	image      int
	genotype   string
	err        error
}

type snapshotLoadedMsg struct {
	snapshot *types.SelectionSnapshot
	err      error
}

type snapshotSavedMsg struct {
	err error
}

type snapshotDeletedMsg struct {
	err error
}
