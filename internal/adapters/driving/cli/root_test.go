package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

type mockSearchService struct {
	result  *domain.SearchResult
	err     error
	sources []domain.SourceHandle
	queries []string
}

func (m *mockSearchService) Search(_ context.Context, query string) (*domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	return m.result, m.err
}

func (m *mockSearchService) Sources() []domain.SourceHandle {
	return m.sources
}

type mockSessionService struct{}

func (m *mockSessionService) Submit(_ context.Context, _ string) (*domain.SearchResult, error) {
	return &domain.SearchResult{}, nil
}

func (m *mockSessionService) State() domain.SessionState {
	return domain.SessionState{}
}

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	provider    domain.GeneratorProvider
	model       string
	apiKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetProvider(provider domain.GeneratorProvider, model string) error {
	m.provider = provider
	m.model = model
	m.settings.Generator.Provider = provider
	m.settings.Generator.Model = model
	return nil
}

func (m *mockSettingsService) SetAPIKey(apiKey string) error {
	m.apiKey = apiKey
	m.settings.Generator.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateGeneratorConfig() error { return m.pingErr }

func testResult() *domain.SearchResult {
	return &domain.SearchResult{
		Query: "product",
		Events: []domain.EventRecord{
			{
				Title:       "PM Case Competition",
				ClubName:    "UBC PMC",
				Category:    domain.CategoryDeadline,
				Date:        "Oct 24",
				Time:        "11:59 PM",
				Location:    "Online",
				Description: "Apply by Friday.",
				Tags:        []string{"product", "case"},
				SourceLink:  "https://www.instagram.com/ubcpmc/",
				IsConfirmed: true,
				Badge:       domain.DateBadge{Day: "24", Month: "OCT", IsDateValid: true},
				Style: domain.CardStyle{
					Variant:   domain.CardVariantDeadline,
					DateLabel: domain.DateLabelDue,
					Badge:     domain.BadgeDeadline,
					ShowTime:  true,
					LinkLabel: domain.LinkLabelApply,
				},
			},
			{
				Title:    "Varsity Outdoor Club",
				ClubName: "VOC",
				Category: domain.CategorySpotlight,
				Date:     domain.DateCheckInstagram,
				Time:     domain.TimeTBD,
				Location: "UBC",
				Badge:    domain.UnknownDateBadge(),
				Style: domain.CardStyle{
					Variant:   domain.CardVariantSpotlight,
					DateLabel: domain.PlaceholderGlyph,
					Muted:     true,
					LinkLabel: domain.LinkLabelCheck,
				},
			},
		},
		Citations: []domain.Citation{{URI: "https://www.instagram.com/ubcpmc/", Title: "UBC PMC"}},
	}
}

// setupTestServices installs mocks and returns a function restoring the previous state.
func setupTestServices() func() {
	prevSearch, prevSession, prevSettings := searchService, sessionService, settingsService
	prevPrompts, prevMetrics, prevErr := promptWatcher, metricsHandler, generatorErr

	SetServices(&Services{
		Search: &mockSearchService{
			result:  testResult(),
			sources: []domain.SourceHandle{"https://www.instagram.com/ubcpmc/"},
		},
		Session:  &mockSessionService{},
		Settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	})

	return func() {
		searchService, sessionService, settingsService = prevSearch, prevSession, prevSettings
		promptWatcher, metricsHandler, generatorErr = prevPrompts, prevMetrics, prevErr
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "scout", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"search", "sources", "settings", "serve", "mcp", "tui", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	search := &mockSearchService{}
	SetServices(&Services{Search: search, GeneratorErr: domain.ErrProviderNotConfigured})

	assert.Same(t, search, searchService)
	assert.Nil(t, sessionService)
	assert.ErrorIs(t, generatorErr, domain.ErrProviderNotConfigured)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")

	assert.Equal(t, "1.2.3", version)
}

func TestRequireGenerator(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	assert.NoError(t, requireGenerator())

	generatorErr = domain.ErrProviderNotConfigured
	err := requireGenerator()
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
	assert.Contains(t, err.Error(), "scout settings provider")
}

type stubWatcher struct {
	changes chan string
	err     error
}

func (w *stubWatcher) Watch(_ context.Context) (<-chan string, error) {
	return w.changes, w.err
}

func TestWatchPrompts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	t.Run("no watcher", func(t *testing.T) {
		promptWatcher = nil
		assert.NotPanics(t, func() { watchPrompts(context.Background()) })
	})

	t.Run("watch error is tolerated", func(t *testing.T) {
		promptWatcher = &stubWatcher{err: errors.New("no inotify")}
		assert.NotPanics(t, func() { watchPrompts(context.Background()) })
	})

	t.Run("drains changes", func(t *testing.T) {
		changes := make(chan string)
		promptWatcher = &stubWatcher{changes: changes}
		watchPrompts(context.Background())

		select {
		case changes <- "event_search":
		case <-time.After(time.Second):
			t.Fatal("change not consumed")
		}
		close(changes)
	})
}
