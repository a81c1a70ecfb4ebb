package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"breeder/internal/breeder"
	"breeder/internal/store"
	"breeder/internal/types"
)

const (
	genotypeTimeout = 10 * time.Second
	snapshotTimeout = 2 * time.Second
)

// runCallCmd performs call off the event loop. Cancelling the call's context
// still yields a result; the breeder discards it.
func runCallCmd(call *breeder.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	return func() tea.Msg {
		return callResultMsg{result: call.Do()}
	}
}

func fetchGenotypeCmd(api BreederAPI, generation, image int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), genotypeTimeout)
		defer cancel()
		genotype, err := api.Genotype(ctx, generation, image)
		return genotypeMsg{generation: generation, image: image, genotype: genotype, err: err}
	}
}

func loadSnapshotCmd(snapshots store.SnapshotStore, server string) tea.Cmd {
	if snapshots == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		snapshot, err := snapshots.Load(ctx, server)
		return snapshotLoadedMsg{snapshot: snapshot, err: err}
	}
}

func saveSnapshotCmd(snapshots store.SnapshotStore, snapshot *types.SelectionSnapshot) tea.Cmd {
	if snapshots == nil || snapshot == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		return snapshotSavedMsg{err: snapshots.Save(ctx, snapshot)}
	}
}

func deleteSnapshotCmd(snapshots store.SnapshotStore, server string) tea.Cmd {
	if snapshots == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		return snapshotDeletedMsg{err: snapshots.Delete(ctx, server)}
	}
}
