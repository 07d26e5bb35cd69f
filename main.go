package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/app"
	"github.com/kai-kondo/OceanTribe/dispatch"
	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/feed"
	"github.com/kai-kondo/OceanTribe/infra/auth"
	"github.com/kai-kondo/OceanTribe/infra/config"
	"github.com/kai-kondo/OceanTribe/infra/memstore"
	"github.com/kai-kondo/OceanTribe/infra/rtdb"
	"github.com/kai-kondo/OceanTribe/mutate"
	"github.com/kai-kondo/OceanTribe/session"
	"github.com/kai-kondo/OceanTribe/subscribe"
	"github.com/kai-kondo/OceanTribe/tui"
	"github.com/kai-kondo/OceanTribe/tui/browse"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: oceantribe [--version|-version|-v] [--help|-h]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("OceanTribe %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	// 1. Load config from environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := newLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// 2. Build the store and the signed-in identity.
	var store app.Store
	var userID string
	if cfg.Demo {
		mem := memstore.New()
		seedDemo(mem)
		store = mem
		userID = demoUserID
	} else {
		token, err := auth.NewFileTokenProvider(cfg.TokenPath).AccessToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "auth: %v\n(put a session token in %s, or set OCEANTRIBE_DEMO=1)\n", err, cfg.TokenPath)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		client, err := rtdb.Dial(ctx, cfg.StoreURL, token, log)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		store = client
		userID, _ = auth.UserID(token)
	}

	sess := session.New()
	if userID != "" {
		sess = session.NewSignedIn(userID)
	}

	// 3. The dispatch loop owns every collection; store snapshots are routed
	// onto it before they reach the subscription manager.
	loop := dispatch.NewLoop()
	defer loop.Close()

	mgr := subscribe.NewManager(subscribe.Route(store, loop), log)
	posts := feed.NewPosts(mgr, sess, log)
	communities := feed.NewCommunities(mgr, sess, log)
	events := feed.NewEvents(mgr, sess, log)
	coord := mutate.NewCoordinator(store, sess, loop, log, mutate.Feeds{
		Posts:       posts,
		Communities: communities,
		Events:      events,
	})

	// 4. Wire the root TUI model.
	uiState, _ := config.LoadUIState(cfg.StatePath)
	rootModel := tui.NewApp(tui.Deps{
		Browse: browse.Deps{Run: loop, Actions: coord},
		State:  uiState,
		SaveState: func(st config.UIState) error {
			return config.SaveUIState(cfg.StatePath, st)
		},
	})

	// 5. Run. The collections start on the loop once the program is up so
	// their first recompute has somewhere to go.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	go loop.Post(func() {
		posts.Start(func(vs []domain.PostView) { p.Send(browse.PostsMsg{Views: vs}) })
		communities.Start(func(vs []domain.CommunityView) { p.Send(browse.CommunitiesMsg{Views: vs}) })
		events.Start(func(vs []domain.EventView) { p.Send(browse.EventsMsg{Views: vs}) })
	})
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "oceantribe: %v\n", err)
		os.Exit(1)
	}
}
