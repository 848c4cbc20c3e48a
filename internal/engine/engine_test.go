package engine

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/casmate/internal/catalog"
	"github.com/garyellow/casmate/internal/catalog/catalogtest"
	domerrors "github.com/garyellow/casmate/internal/errors"
	"github.com/garyellow/casmate/internal/logger"
	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/rag"
	"github.com/garyellow/casmate/internal/resolver"
)

type stubSource struct {
	mu   sync.Mutex
	data catalog.Data
	err  error
	hits int
}

func (s *stubSource) Load(context.Context) (catalog.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
	return s.data, s.err
}

func (s *stubSource) Name() string { return "stub" }

func counter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestBuild(t *testing.T) {
	t.Parallel()
	e, err := Build(catalogtest.Data(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, len(e.Catalog.Courses())+len(e.Catalog.Programs()), e.Index.Len())
	assert.Equal(t, nlu.IntentPrerequisites, e.Classifier.Classify("Prereq of Data Structures"))

	text := "Prereq of Data Structures"
	res := e.Resolver.ResolveCourse(text, e.Extractor.Extract(text))
	require.NotNil(t, res.Course)
	assert.Equal(t, "CC 211", res.Course.ID)

	hits, err := e.Index.Search("psychology", 5, rag.KindProgram)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, catalogtest.BSPSY, hits[0].ID)
}

func TestBuild_Options(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.Thresholds = resolver.Thresholds{HighConfidence: 95}
	e, err := Build(catalogtest.Data(), opts)
	require.NoError(t, err)
	assert.Equal(t, 95, e.Resolver.Thresholds().HighConfidence)
	assert.Equal(t, resolver.DefaultThresholds().Suggest, e.Resolver.Thresholds().Suggest)
}

func TestBuild_InvalidData(t *testing.T) {
	t.Parallel()
	d := catalogtest.Data()
	d.Programs = append(d.Programs, d.Programs[0])
	_, err := Build(d, DefaultOptions())
	require.Error(t, err)
	assert.True(t, domerrors.IsValidation(err))
}

func TestIssueCounts(t *testing.T) {
	t.Parallel()
	d := catalogtest.Data()
	d.Prerequisites = append(d.Prerequisites,
		catalog.PrereqEdge{CourseID: "CC 111", PrereqID: "NOPE 999"},
		catalog.PrereqEdge{CourseID: "CC 112", PrereqID: "CC 112"},
	)
	e, err := Build(d, DefaultOptions())
	require.NoError(t, err)
	counts := e.IssueCounts()
	assert.Equal(t, 1, counts[string(catalog.IssueDanglingPrereq)])
	assert.Equal(t, 1, counts[string(catalog.IssueSelfPrereq)])
}

func TestHolder_NotReady(t *testing.T) {
	t.Parallel()
	h := NewHolder(&stubSource{data: catalogtest.Data()}, DefaultOptions(), nil, nil)
	assert.False(t, h.Ready())
	_, err := h.Current()
	assert.ErrorIs(t, err, domerrors.ErrCatalogNotReady)
}

func TestHolder_Reload(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.NewWithWriter("info", &buf)
	m := metrics.New(prometheus.NewRegistry())
	src := &stubSource{data: catalogtest.Data()}
	h := NewHolder(src, DefaultOptions(), log, m)

	first, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Ready())
	assert.Equal(t, "stub", first.Source)
	assert.Contains(t, buf.String(), "Catalog loaded")

	got, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, first, got)

	second, err := h.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	got, _ = h.Current()
	assert.Same(t, second, got)

	assert.Equal(t, 2.0, counter(t, m.CatalogReloadsTotal.WithLabelValues("success")))
	assert.Equal(t, 2, src.hits)
}

func TestHolder_ReloadFailureKeepsCurrent(t *testing.T) {
	t.Parallel()
	m := metrics.New(prometheus.NewRegistry())
	src := &stubSource{data: catalogtest.Data()}
	h := NewHolder(src, DefaultOptions(), logger.NewWithWriter("error", &bytes.Buffer{}), m)

	live, err := h.Reload(context.Background())
	require.NoError(t, err)

	src.mu.Lock()
	src.err = errors.New("disk on fire")
	src.mu.Unlock()

	_, err = h.Reload(context.Background())
	require.Error(t, err)
	got, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, live, got)
	assert.Equal(t, 1.0, counter(t, m.CatalogReloadsTotal.WithLabelValues("error")))
}

func TestLoad_WrapsSourceError(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk on fire")
	_, err := Load(context.Background(), &stubSource{err: cause}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not read the catalog from stub", domerrors.GetUserMessage(err))

	var pub *domerrors.PublicError
	require.ErrorAs(t, err, &pub)
	assert.Equal(t, "engine.load", pub.Op.String())
}

func TestHolder_StaticCannotReload(t *testing.T) {
	t.Parallel()
	e, err := Build(catalogtest.Data(), DefaultOptions())
	require.NoError(t, err)
	h := NewStaticHolder(e)
	assert.True(t, h.Ready())

	_, err = h.Reload(context.Background())
	assert.ErrorIs(t, err, domerrors.ErrMissingParameter)
}

func TestHolder_ConcurrentReads(t *testing.T) {
	t.Parallel()
	h := NewHolder(&stubSource{data: catalogtest.Data()}, DefaultOptions(), nil, nil)
	_, err := h.Reload(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e, err := h.Current()
			if assert.NoError(t, err) {
				assert.NotNil(t, e.Catalog)
			}
		}()
		go func() {
			defer wg.Done()
			_, err := h.Reload(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
