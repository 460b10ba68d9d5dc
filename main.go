package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nstehr/ironbot/agent"
	"github.com/nstehr/ironbot/ipc"
	"github.com/nstehr/ironbot/rules"
)

const banner = `
██╗██████╗  ██████╗ ███╗   ██╗██████╗  ██████╗ ████████╗
██║██╔══██╗██╔═══██╗████╗  ██║██╔══██╗██╔═══██╗╚══██╔══╝
██║██████╔╝██║   ██║██╔██╗ ██║██████╔╝██║   ██║   ██║
██║██╔══██╗██║   ██║██║╚██╗██║██╔══██╗██║   ██║   ██║
██║██║  ██║╚██████╔╝██║ ╚████║██████╔╝╚██████╔╝   ██║
╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═════╝  ╚═════╝    ╚═╝

Lighthouse Capture Bot`

func main() {
	variant := flag.String("variant", "refined", "bot variant: refined, simple or learned")
	name := flag.String("name", "", "name sent in the handshake (default depends on variant)")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	transport := flag.String("transport", "stdio", "stdio, unix:<path> or ws://host/path")
	weights := flag.String("weights", "", "network config JSON for the learned variant")
	epsilon := flag.Float64("epsilon", 0.01, "exploration rate for the learned variant")
	hidden := flag.String("hidden", "64,64", "hidden layer sizes for an untrained network")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	// stdout carries the protocol; everything human-readable goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	fmt.Fprintln(os.Stderr, banner)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	factory, botName, err := selectVariant(*variant, *weights, *hidden, *epsilon, rng)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if *name != "" {
		botName = *name
	}

	slog.Info("starting ironbot", "variant", *variant, "name", botName, "seed", *seed, "transport", *transport)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, err := ipc.Open(ctx, *transport)
	if err != nil {
		slog.Error("failed to open transport", "transport", *transport, "error", err)
		os.Exit(1)
	}

	// Closing the transport unblocks a pending read on shutdown.
	go func() {
		<-ctx.Done()
		t.Close()
	}()

	a := agent.New(ipc.NewConnection(t), botName, factory)
	err = a.Run(ctx)
	t.Close()
	if err != nil {
		if errors.Is(err, rules.ErrNoLegalMove) {
			slog.Error("stuck with no legal move", "session", a.Session, "error", err)
		} else {
			slog.Error("session failed", "session", a.Session, "error", err)
		}
		os.Exit(1)
	}
	slog.Info("shutting down", "session", a.Session)
}

func selectVariant(variant, weights, hidden string, epsilon float64, rng *rand.Rand) (agent.DeciderFactory, string, error) {
	if variant == "learned" {
		sizes, err := parseHidden(hidden)
		if err != nil {
			return nil, "", err
		}
		cfg := agent.LearnedConfig{WeightsPath: weights, Hidden: sizes, Epsilon: epsilon}
		return agent.LearnedDecider(cfg, rng), "IronBot_mk3", nil
	}

	p, err := rules.ProfileByName(variant)
	if err != nil {
		return nil, "", err
	}
	botName := "IronBot_mk2"
	if p.Name == "simple" {
		botName = "IronBot_mk1"
	}
	return agent.RuleDecider(p, rng), botName, nil
}

func parseHidden(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid hidden layer size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func parseLevel(s string) slog.Level {
	if os.Getenv("DEBUG") == "1" {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
