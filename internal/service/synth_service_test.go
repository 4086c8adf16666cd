package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/output"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage/memory"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/synth"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newService(t *testing.T, mutate ...func(*synth.Settings)) (*service.SynthService, *memory.Store) {
	t.Helper()
	settings := synth.DefaultSettings()
	for _, m := range mutate {
		m(&settings)
	}
	s, err := synth.New(settings)
	require.NoError(t, err)
	store := memory.New()
	return service.NewSynthService(s, store, zaptest.NewLogger(t)), store
}

func TestPreview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	r, err := svc.Preview(ctx, domain.KnownVariants(), template.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "uk-coronavirus-data-alerts-PROD", r.StackName)
	assert.Equal(t, output.Digest(r.Data), r.Digest)
	assert.Contains(t, string(r.Data), "AlertsFunctionVerified")

	// Nothing is recorded.
	versions, err := store.ListTemplateVersions(ctx, r.StackName, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestPreview_UnknownVariant(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Preview(context.Background(), []domain.Variant{"BOGUS"}, template.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)
}

func TestRun_RecordsAndDetectsUnchanged(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	dir := t.TempDir()
	w := output.NewFileWriter(dir, zaptest.NewLogger(t))

	first, err := svc.Run(ctx, domain.KnownVariants(), template.FormatJSON, w)
	require.NoError(t, err)
	assert.Equal(t, domain.SynthStatusCreated, first.Status)
	assert.Equal(t, 1, first.VersionNumber)
	assert.NotEmpty(t, first.VersionID)
	assert.NotEmpty(t, first.Path)

	data, digest, err := w.ReadTemplate(ctx, first.StackName, template.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, first.Digest, digest)
	assert.NotEmpty(t, data)

	second, err := svc.Run(ctx, domain.KnownVariants(), template.FormatJSON, w)
	require.NoError(t, err)
	assert.Equal(t, domain.SynthStatusUnchanged, second.Status)
	assert.Equal(t, first.VersionID, second.VersionID)
	assert.Equal(t, 1, second.VersionNumber)

	third, err := svc.Run(ctx, []domain.Variant{domain.VariantVerified}, template.FormatJSON, w)
	require.NoError(t, err)
	assert.Equal(t, domain.SynthStatusCreated, third.Status)
	assert.Equal(t, 2, third.VersionNumber)

	versions, err := svc.ListVersions(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber)
}

func TestRun_WithoutWriter(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.Run(context.Background(), domain.KnownVariants(), template.FormatYAML, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Path)

	v, err := svc.GetVersion(context.Background(), res.VersionID)
	require.NoError(t, err)
	assert.Equal(t, "yaml", v.Format)
	assert.Equal(t, res.Digest, v.Digest)
	assert.WithinDuration(t, time.Now(), v.CreatedAt, time.Minute)
}

func TestRun_FailureWritesNothing(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	var buf bytes.Buffer

	_, err := svc.Run(ctx, []domain.Variant{"BOGUS"}, template.FormatJSON, output.NewStreamWriter(&buf))
	require.Error(t, err)
	assert.Zero(t, buf.Len())

	versions, err := store.ListTemplateVersions(ctx, svc.StackName(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRestore(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Run(ctx, domain.KnownVariants(), template.FormatJSON, nil)
	require.NoError(t, err)
	_, err = svc.Run(ctx, []domain.Variant{domain.VariantUnverified}, template.FormatJSON, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := svc.Restore(ctx, first.VersionID, output.NewStreamWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, domain.SynthStatusRestored, res.Status)
	assert.Equal(t, first.Digest, output.Digest(buf.Bytes()))

	_, err = svc.Restore(ctx, "missing", output.NewStreamWriter(&buf))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListVersions_InvalidPaging(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ListVersions(context.Background(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.ListVersions(context.Background(), 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
