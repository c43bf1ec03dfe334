package lyricmap

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config contains the options shared by Loader and Synchronizer.
type Config struct {
	Source   Source        // Dataset source (default: the embedded sample)
	Logger   *slog.Logger  // Structured logger (default: slog.Default())
	Debounce time.Duration // Recompute coalescing window (default: 300ms)
	Clock    clockwork.Clock
	Rand     *rand.Rand
	Camera   CameraConfig
	Regions  []RegionPreset // Viewport presets (default: DefaultRegionPresets)
	Home     RegionPreset   // Home region (default: Hong Kong)
}

// Option is a functional option for configuring a Loader or Synchronizer.
type Option func(*Config)

// WithSource sets the dataset source.
func WithSource(src Source) Option {
	return func(c *Config) {
		c.Source = src
	}
}

// WithURL fetches the dataset over HTTP using client (nil for the default).
func WithURL(url string, client *http.Client) Option {
	return func(c *Config) {
		c.Source = HTTPSource{URL: url, Client: client}
	}
}

// WithFile reads the dataset from path (optionally .bz2 or .gz compressed).
func WithFile(path string) Option {
	return func(c *Config) {
		c.Source = FileSource{Path: path}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithDebounce sets the window in which successive changes coalesce into a
// single recompute. Zero renders synchronously on every change.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Debounce = d
		}
	}
}

// WithClock replaces the clock driving debounce and popup timers.
func WithClock(clk clockwork.Clock) Option {
	return func(c *Config) {
		if clk != nil {
			c.Clock = clk
		}
	}
}

// WithRand sets the random source used by RandomPick.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) {
		if r != nil {
			c.Rand = r
		}
	}
}

// WithCamera overrides the zoom and fitting parameters.
func WithCamera(cam CameraConfig) Option {
	return func(c *Config) {
		c.Camera = cam
	}
}

// WithRegionPresets replaces the per-region viewport presets. The first
// preset is not implied to be home; use WithHome for that.
func WithRegionPresets(presets []RegionPreset) Option {
	return func(c *Config) {
		c.Regions = presets
	}
}

// WithHome sets the home region and its viewport.
func WithHome(home RegionPreset) Option {
	return func(c *Config) {
		c.Home = home
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		Source:   SampleSource{},
		Logger:   slog.Default(),
		Debounce: 300 * time.Millisecond,
		Clock:    clockwork.NewRealClock(),
		Rand:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		Camera:   DefaultCamera,
		Regions:  DefaultRegionPresets,
		Home:     DefaultRegionPresets[0],
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
