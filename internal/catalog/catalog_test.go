package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"abilityctl/internal/api"
	"abilityctl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const sampleCatalog = `
abilities:
  - id: up-1
    provider: baidu
    category: image
    capabilityKey: image_upscale
    name: Upscale
    status: active
    abilityType: api
    defaultParams:
      scale: 2
    metadata:
      required_tags: [gpu]
  - id: chat-1
    provider: deepseek
    capabilityKey: chat
    name: Chat
executors:
  - id: e2
    type: baidu-prod
    config:
      tags: gpu,region:hz
  - id: e1
    type: kie
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, doc.Abilities, 2)
	require.Len(t, doc.Executors, 2)

	up := doc.Abilities[0]
	assert.Equal(t, "image_upscale", up.CapabilityKey)
	assert.Equal(t, api.AbilityStatusActive, up.Status)
	assert.Equal(t, api.AbilityTypeAPI, up.AbilityType)
	assert.Equal(t, 2, up.DefaultParams["scale"])
	assert.Equal(t, "gpu,region:hz", doc.Executors[0].Config["tags"])

	_, err = ParseDocument([]byte("abilities: {"))
	assert.ErrorIs(t, err, api.ErrInvalidDocument)
}

func TestDocument_Validate(t *testing.T) {
	doc := Document{
		Abilities: []api.Ability{
			{ID: "a", Provider: "kie", CapabilityKey: "video"},
			{ID: "b", Provider: "KIE", CapabilityKey: "video"},
			{ID: "c", Provider: "baidu", CapabilityKey: "video"},
			{ID: "a", Provider: "openai"},
			{Provider: "openai"},
		},
		Executors: []api.Executor{{ID: "e"}, {ID: "e"}, {}},
	}
	err := doc.Validate()
	require.Error(t, err)

	var errs api.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"abilities[1].capabilityKey",
		"abilities[3].id",
		"abilities[4].id",
		"executors[1].id",
		"executors[2].id",
	}, fields)

	assert.NoError(t, Document{}.Validate())
}

func TestMemoryStore(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleCatalog))
	require.NoError(t, err)
	store, err := NewMemoryStore(doc)
	require.NoError(t, err)
	ctx := context.Background()

	abilities, err := store.ListAbilities(ctx)
	require.NoError(t, err)
	require.Len(t, abilities, 2)
	assert.Equal(t, "chat-1", abilities[1].ID)
	assert.Equal(t, "up-1", abilities[0].ID)

	executors, err := store.ListExecutors(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e2", executors[0].ID, "executor order is preserved")

	got, err := store.GetAbility(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Chat", got.Name)
	got.Name = "mutated"
	again, _ := store.GetAbility(ctx, "chat-1")
	assert.Equal(t, "Chat", again.Name)

	_, err = store.GetAbility(ctx, "missing")
	assert.ErrorIs(t, err, api.ErrAbilityNotFound)

	err = store.Replace(Document{Abilities: []api.Ability{{ID: ""}}})
	assert.ErrorIs(t, err, api.ErrInvalidDocument)
	abilities, _ = store.ListAbilities(ctx)
	assert.Len(t, abilities, 2, "failed replace keeps the previous catalog")
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	doc := Document{
		Abilities: []api.Ability{{ID: "new", Provider: "kie", CapabilityKey: "veo"}},
		Executors: []api.Executor{{ID: "k1", Type: "kie"}},
	}
	require.NoError(t, store.Save(doc))
	abilities, err := store.ListAbilities(ctx)
	require.NoError(t, err)
	require.Len(t, abilities, 1)
	assert.Equal(t, "new", abilities[0].ID)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reopened.GetAbility(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "veo", got.CapabilityKey)

	require.NoError(t, os.WriteFile(path, []byte("abilities: ["), 0644))
	assert.Error(t, reopened.Reload())
	_, err = reopened.GetAbility(ctx, "new")
	assert.NoError(t, err)

	_, err = NewFileStore(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigMapStore(t *testing.T) {
	ctx := context.Background()
	client := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "ability-catalog", Namespace: "abilities"},
		Data:       map[string]string{DefaultConfigMapKey: sampleCatalog},
	})

	store, err := NewConfigMapStore(ctx, client, "abilities", "ability-catalog", "")
	require.NoError(t, err)
	executors, err := store.ListExecutors(ctx)
	require.NoError(t, err)
	assert.Len(t, executors, 2)

	cm, err := client.CoreV1().ConfigMaps("abilities").Get(ctx, "ability-catalog", metav1.GetOptions{})
	require.NoError(t, err)
	cm.Data[DefaultConfigMapKey] = "executors:\n  - id: only\n    type: comfyui\n"
	_, err = client.CoreV1().ConfigMaps("abilities").Update(ctx, cm, metav1.UpdateOptions{})
	require.NoError(t, err)

	require.NoError(t, store.Refresh(ctx))
	executors, _ = store.ListExecutors(ctx)
	require.Len(t, executors, 1)
	assert.Equal(t, "only", executors[0].ID)

	_, err = NewConfigMapStore(ctx, client, "abilities", "missing", "")
	assert.Error(t, err)
	_, err = NewConfigMapStore(ctx, client, "abilities", "ability-catalog", "other.yaml")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

	store, err := Open(context.Background(), config.CatalogConfig{Source: config.CatalogSourceFile, Path: path})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	_, err = Open(context.Background(), config.CatalogConfig{Source: config.CatalogSourceConfigMap})
	assert.Error(t, err)
	_, err = Open(context.Background(), config.CatalogConfig{Source: "etcd"})
	assert.Error(t, err)
}
