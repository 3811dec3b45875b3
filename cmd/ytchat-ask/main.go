// Command ytchat-ask answers one question about a video from the terminal
//
//	ytchat-ask -url https://youtu.be/dQw4w9WgXcQ -q "what is this about?"
//	ytchat-ask -url https://youtu.be/dQw4w9WgXcQ -probe
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ytchat/internal/core/prompt"
	"ytchat/internal/core/videoref"
	"ytchat/internal/modkit"
	"ytchat/internal/modkit/module"
	"ytchat/internal/platform/config"
	"ytchat/internal/platform/logger"
	"ytchat/internal/platform/net/http/bind"
	"ytchat/internal/platform/store"

	ragdom "ytchat/internal/services/rag/domain"
	ragmod "ytchat/internal/services/rag/module"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the exit code so deferred cleanup always happens
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("ytchat-ask", flag.ContinueOnError)
	var (
		fURL     = fs.String("url", "", "YouTube video url")
		fQ       = fs.String("q", "", "question; ask for a summary to summarize the video")
		fHistory = fs.String("history", "", "path to a JSON array of {role,text} chat turns")
		fJSON    = fs.Bool("json", false, "print the result as JSON")
		fProbe   = fs.Bool("probe", false, "report whether the video is indexed and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *fURL == "" || (*fQ == "" && !*fProbe) {
		fs.Usage()
		return 2
	}

	l := logger.Get()

	history, err := readHistory(*fHistory)
	if err != nil {
		l.Error().Err(err).Str("path", *fHistory).Msg("read history")
		return 1
	}

	root := config.New()
	pgCfg := root.Prefix("CORE_PG_")
	chCfg := root.Prefix("CORE_CH_")
	rdsCfg := root.Prefix("CORE_REDIS_")
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("URL", "")
	rdsURL := rdsCfg.MayString("URL", "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "ytchat-ask",
		PG: store.PGConfig{
			Enabled:     pgCfg.MayBool("ENABLED", pgURL != ""),
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", chURL != ""),
			URL:        chURL,
			ClientName: "ytchat",
			ClientTag:  "cli",
		},
		RDS: store.RedisConfig{
			Enabled: rdsCfg.MayBool("ENABLED", rdsURL != ""),
			URL:     rdsURL,
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Error().Err(err).Msg("store.Open failed")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Cfg: root, Log: *l, PG: st.PG, CH: st.CH, KV: st.KV}
	rag := ragmod.New(deps, ragmod.FromConfig(root))
	ports := module.MustPortsOf[ragmod.Ports](rag)

	if *fProbe {
		id, err := videoref.Resolve(*fURL)
		if err != nil {
			l.Error().Err(err).Msg("resolve url")
			return 1
		}
		stats, err := ports.Prober.Stats(ctx, id)
		if err != nil {
			l.Error().Err(err).Msg("probe failed")
			return 1
		}
		emit(stdout, *fJSON, stats, fmt.Sprintf("video %s exists=%t segments=%d state=%q",
			stats.VideoID, stats.Exists, stats.Segments, stats.State))
		return 0
	}

	res, err := ports.Answerer.AnswerFromYouTube(ctx, ragdom.Input{
		YouTubeURL:  *fURL,
		Question:    *fQ,
		ChatHistory: history,
	})
	if err != nil {
		l.Error().Err(err).Msg("ask failed")
		return 1
	}

	text := res.Answer
	if !res.Answered() {
		text = res.Status + ": " + res.Message
	}
	emit(stdout, *fJSON, res, text)
	return 0
}

// readHistory loads and validates chat turns, an empty path means none
func readHistory(path string) ([]prompt.Turn, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var turns []prompt.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, err
	}
	v := bind.Get().Validator
	for i := range turns {
		if err := v.Struct(turns[i]); err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
	}
	return turns, nil
}

func emit(w io.Writer, asJSON bool, v any, text string) {
	if !asJSON {
		fmt.Fprintln(w, text)
		return
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
