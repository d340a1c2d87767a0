package settings

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

func newFileKV(t *testing.T, dir string) kv.Store {
	t.Helper()
	store, err := kv.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store
}

func TestNewStore_DefaultsWhenNoFile(t *testing.T) {
	store, err := NewStore(newFileKV(t, t.TempDir()))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	got := store.Get()
	if got.Theme != ThemeLight {
		t.Errorf("expected default theme %q, got %q", ThemeLight, got.Theme)
	}
	if got.Language != locale.Auto {
		t.Errorf("expected default language %q, got %q", locale.Auto, got.Language)
	}
}

func TestNewStore_LoadsExistingValues(t *testing.T) {
	backing := kv.NewMemoryStore()
	backing.Set(kv.KeyTheme, []byte(`"dark"`))
	backing.Set(kv.KeyLanguage, []byte(`"ta"`))

	store, err := NewStore(backing)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	got := store.Get()
	if got.Theme != ThemeDark {
		t.Errorf("expected theme %q, got %q", ThemeDark, got.Theme)
	}
	if got.Language != locale.Tamil {
		t.Errorf("expected language %q, got %q", locale.Tamil, got.Language)
	}
}

func TestNewStore_AcceptsBareValues(t *testing.T) {
	backing := kv.NewMemoryStore()
	backing.Set(kv.KeyTheme, []byte(`dark`))

	store, _ := NewStore(backing)
	if got := store.Get().Theme; got != ThemeDark {
		t.Errorf("expected theme %q, got %q", ThemeDark, got)
	}
}

func TestNewStore_FallsBackOnInvalidValue(t *testing.T) {
	backing := kv.NewMemoryStore()
	backing.Set(kv.KeyTheme, []byte(`"sepia"`))
	backing.Set(kv.KeyLanguage, []byte(`"hi"`))

	store, err := NewStore(backing)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	got := store.Get()
	if got.Theme != ThemeLight {
		t.Errorf("expected default theme %q, got %q", ThemeLight, got.Theme)
	}
	if got.Language != locale.Hindi {
		t.Errorf("expected valid language to survive, got %q", got.Language)
	}
}

func TestStore_SetTheme_RejectsInvalidValue(t *testing.T) {
	store, _ := NewStore(kv.NewMemoryStore())

	err := store.SetTheme("sepia")
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if got := store.Get().Theme; got != ThemeLight {
		t.Errorf("expected theme %q, got %q", ThemeLight, got)
	}
}

func TestStore_ToggleTheme(t *testing.T) {
	store, _ := NewStore(kv.NewMemoryStore())

	theme, err := store.ToggleTheme()
	if err != nil {
		t.Fatalf("ToggleTheme failed: %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("expected %q, got %q", ThemeDark, theme)
	}

	theme, _ = store.ToggleTheme()
	if theme != ThemeLight {
		t.Errorf("expected %q, got %q", ThemeLight, theme)
	}
}

func TestStore_Update_PersistsToDisk(t *testing.T) {
	dir := t.TempDir()

	store1, _ := NewStore(newFileKV(t, dir))
	store1.SetTheme(ThemeDark)
	store1.SetLanguage(locale.Kannada)

	store2, _ := NewStore(newFileKV(t, dir))
	got := store2.Get()
	if got.Theme != ThemeDark {
		t.Errorf("expected persisted theme %q, got %q", ThemeDark, got.Theme)
	}
	if got.Language != locale.Kannada {
		t.Errorf("expected persisted language %q, got %q", locale.Kannada, got.Language)
	}
}

func TestStore_PersistenceFailureKeepsMemoryState(t *testing.T) {
	backing := kv.NewMemoryStore()
	store, _ := NewStore(backing)
	backing.SetFailure(errors.New("quota exceeded"))

	err := store.SetLanguage(locale.Telugu)
	if !apperr.IsWarning(err) {
		t.Fatalf("expected PersistenceWarning, got %v", err)
	}
	if got := store.Get().Language; got != locale.Telugu {
		t.Errorf("expected in-memory language %q, got %q", locale.Telugu, got)
	}
}

type recordingListener struct {
	events []Settings
}

func (l *recordingListener) OnSettingsChange(s Settings) {
	l.events = append(l.events, s)
}

func TestStore_NotifiesListeners(t *testing.T) {
	store, _ := NewStore(kv.NewMemoryStore())
	l := &recordingListener{}
	store.AddOnChangeListener(l)

	store.SetLanguage(locale.Malayalam)
	store.SetLanguage(locale.Malayalam)

	if len(l.events) != 1 {
		t.Fatalf("expected 1 event for an unchanged second update, got %d", len(l.events))
	}
	if l.events[0].Language != locale.Malayalam {
		t.Errorf("got %q in event", l.events[0].Language)
	}
}

func TestStore_Reload(t *testing.T) {
	backing := kv.NewMemoryStore()
	store, _ := NewStore(backing)
	l := &recordingListener{}
	store.AddOnChangeListener(l)

	backing.Set(kv.KeyTheme, []byte(`"dark"`))
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := store.Get().Theme; got != ThemeDark {
		t.Errorf("expected reloaded theme %q, got %q", ThemeDark, got)
	}
	if len(l.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(l.events))
	}

	store.Reload()
	if len(l.events) != 1 {
		t.Errorf("expected no event for unchanged reload, got %d", len(l.events))
	}
}

func TestSettings_Locale(t *testing.T) {
	if got := Default().Locale(); got != locale.English {
		t.Errorf("expected auto to resolve to %q, got %q", locale.English, got)
	}
}

func TestTheme_IsValid(t *testing.T) {
	tests := []struct {
		theme Theme
		valid bool
	}{
		{ThemeLight, true},
		{ThemeDark, true},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.theme.IsValid(); got != tt.valid {
			t.Errorf("Theme(%q).IsValid() = %v, want %v", tt.theme, got, tt.valid)
		}
	}
}

// gatedKV holds the first Set until release is closed.
type gatedKV struct {
	kv.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Set(key string, value []byte) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Store.Set(key, value)
}

func TestStore_ConcurrentSettersKeepBothFields(t *testing.T) {
	backing := kv.NewMemoryStore()
	gated := &gatedKV{Store: backing, entered: make(chan struct{}), release: make(chan struct{})}
	store, _ := NewStore(gated)

	themeDone := make(chan error, 1)
	go func() { themeDone <- store.SetTheme(ThemeDark) }()
	<-gated.entered

	langDone := make(chan error, 1)
	go func() { langDone <- store.SetLanguage(locale.Tamil) }()

	select {
	case <-langDone:
		t.Fatal("SetLanguage returned while the theme change was still persisting")
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.release)
	if err := <-themeDone; err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := <-langDone; err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	want := Settings{Theme: ThemeDark, Language: locale.Tamil}
	if got := store.Get(); got != want {
		t.Errorf("expected %+v in memory, got %+v", want, got)
	}
	reopened, _ := NewStore(backing)
	if got := reopened.Get(); got != want {
		t.Errorf("expected %+v on disk, got %+v", want, got)
	}
}
