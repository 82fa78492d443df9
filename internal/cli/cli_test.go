package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/cli"
	"geoaddr/internal/domain"
	"geoaddr/internal/port"
	"geoaddr/mocks"
)

type fakeRunner struct {
	hints []string
}

func (f *fakeRunner) Process(_ context.Context, text, cityHint string) *domain.GeoResult {
	f.hints = append(f.hints, cityHint)
	if !strings.Contains(text, "Хрещатик") {
		msg := domain.ErrNoAddress.Error()
		return &domain.GeoResult{OriginalText: text, Method: domain.MethodNone, Error: &msg}
	}
	lat, lon := 50.4474, 30.5223
	return &domain.GeoResult{
		OriginalText: text,
		Language:     domain.LanguageUkrainian,
		Method:       domain.MethodOffline,
		Parsed:       &domain.ParsedAddress{StreetType: "вулиця", StreetName: "Хрещатик", Building: "22", City: cityHint, Confidence: 0.8},
		Latitude:     &lat,
		Longitude:    &lon,
		Geocoded:     true,
	}
}

func (f *fakeRunner) BatchFunc(ctx context.Context, texts []string, cityHint string, done func(int, *domain.GeoResult)) []*domain.GeoResult {
	out := make([]*domain.GeoResult, 0, len(texts))
	for i, t := range texts {
		res := f.Process(ctx, t, cityHint)
		out = append(out, res)
		if done != nil {
			done(i, res)
		}
	}
	return out
}

type harness struct {
	app    *cli.App
	runner *fakeRunner
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(stdin string, storage port.ObjectStorage) *harness {
	h := &harness{runner: &fakeRunner{}, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	h.app = &cli.App{
		In:  strings.NewReader(stdin),
		Out: h.out,
		Err: h.errOut,
		NewRunner: func(context.Context) (cli.Runner, error) {
			return h.runner, nil
		},
		NewStorage: func(context.Context) (port.ObjectStorage, error) {
			if storage == nil {
				return nil, errors.New("no bucket")
			}
			return storage, nil
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := cli.NewRootCommand(h.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestExtract_Args(t *testing.T) {
	h := newHarness("", nil)

	require.NoError(t, h.run("extract", "--city", "Київ", "вул.", "Хрещатик,", "22"))

	var res domain.GeoResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.Equal(t, "вул. Хрещатик, 22", res.OriginalText)
	assert.True(t, res.Geocoded)
	assert.Equal(t, []string{"Київ"}, h.runner.hints)
}

func TestExtract_Stdin(t *testing.T) {
	h := newHarness("  Левый 2 белый рено\n", nil)

	require.NoError(t, h.run("extract"))

	var res domain.GeoResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &res))
	assert.Equal(t, "Левый 2 белый рено", res.OriginalText)
	assert.Equal(t, "No address found", res.ErrorMessage())
}

func TestExtract_EmptyInput(t *testing.T) {
	h := newHarness("   ", nil)

	assert.Error(t, h.run("extract"))
	assert.Empty(t, h.runner.hints)
}

func TestBatch_CSVToStdout(t *testing.T) {
	h := newHarness("вул. Хрещатик, 22\n\nЛевый 2 белый рено\n", nil)

	require.NoError(t, h.run("batch", "-", "-o", "-"))

	lines := strings.Split(strings.TrimRight(h.out.String(), "\r\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "\ufeffOriginal Text,"))
	assert.Contains(t, lines[1], "Хрещатик")
	assert.Contains(t, h.errOut.String(), "2 texts, 1 geocoded")
}

func TestBatch_JSON(t *testing.T) {
	h := newHarness("вул. Хрещатик, 22\n", nil)

	require.NoError(t, h.run("batch", "-", "--format", "json", "--city", "Київ"))

	var results []domain.GeoResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Київ", results[0].Parsed.City)
}

func TestBatch_XLSXFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "messages.txt")
	require.NoError(t, os.WriteFile(input, []byte("вул. Хрещатик, 22\n"), 0o600))
	output := filepath.Join(dir, "out.xlsx")

	h := newHarness("", nil)
	require.NoError(t, h.run("batch", input, "-f", "xlsx", "-o", output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")
	assert.Contains(t, h.errOut.String(), "report written to "+output)
}

func TestBatch_Upload(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "reports/") && strings.Contains(in.Key, "-batch_")
	})).Return(&port.UploadOutput{Key: "reports/x.csv"}, nil)
	storage.On("PresignURL", mock.Anything, "reports/x.csv").Return("https://example.test/x.csv", nil)

	h := newHarness("вул. Хрещатик, 22\n", storage)
	require.NoError(t, h.run("batch", "-", "--upload"))

	assert.Equal(t, "https://example.test/x.csv\n", h.out.String())
	storage.AssertExpectations(t)
}

func TestBatch_UploadWithoutStorage(t *testing.T) {
	h := newHarness("вул. Хрещатик, 22\n", nil)

	err := h.run("batch", "-", "--upload")

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestBatch_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"unknown format", "вул. Хрещатик, 22\n", []string{"batch", "-", "-f", "pdf"}},
		{"json upload", "вул. Хрещатик, 22\n", []string{"batch", "-", "-f", "json", "--upload"}},
		{"empty input", "\n\n", []string{"batch", "-"}},
		{"missing file", "", []string{"batch", "/nonexistent/input.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.stdin, nil)
			assert.Error(t, h.run(tt.args...))
			assert.Empty(t, h.runner.hints)
		})
	}
}
