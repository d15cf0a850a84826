package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument(name string) *domain.Document {
	pool := domain.NewPool("linux")
	pool.Image("ubuntu-latest")

	job := domain.NewJob("Compile")
	job.Script("make")
	stage := domain.NewStage("Build")
	stage.AddJob(job)

	p := &domain.Pipeline{Trigger: "main", Pool: pool, Stages: []domain.Stage{*stage}}

	return &domain.Document{
		Name:       name,
		Text:       "trigger: main\n",
		Pipeline:   p,
		CompiledAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore implementation
// adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	name := "contract-test-document-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument(name)

		err := store.Save(ctx, name, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.Name, loaded.Name)
		assert.Equal(t, doc.Text, loaded.Text)
		assert.True(t, doc.CompiledAt.Equal(loaded.CompiledAt))
		require.NotNil(t, loaded.Pipeline)
		assert.Equal(t, doc.Pipeline, loaded.Pipeline)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		doc := contractDocument(name)
		doc.Text = "trigger: release\n"
		require.NoError(t, store.Save(ctx, name, doc))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "trigger: release\n", loaded.Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, name, contractDocument(name))
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, contractDocument(id1))
		_ = store.Save(ctx, id2, contractDocument(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
