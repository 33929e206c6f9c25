package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/ops"
	"github.com/solettadev/soletta/internal/session"
	"github.com/solettadev/soletta/internal/txbuilder"
)

func (r *Router) showConfig(_ context.Context) (ops.Outcome, error) {
	r.console.Header("Configuration (" + r.cfgPath + ")")
	r.console.Table(
		[]string{"Key", "Value"},
		[][]string{
			{"rpc_url", r.cfg.RPCURL},
			{"commitment", string(r.cfg.Commitment)},
			{"keypair_path", r.cfg.KeypairPath},
			{"log_level", fmt.Sprintf("%d", r.cfg.LogLevel)},
			{"log_format", r.cfg.LogFormat},
		},
	)
	return ops.Completed, nil
}

// editConfig prompts for each setting (blank keeps the current value),
// persists the file, and rebuilds the session wholesale. Nothing from the
// old session survives: keypair, gateway, and journal are all reopened
// against the new settings.
func (r *Router) editConfig(ctx context.Context) (ops.Outcome, error) {
	next := *r.cfg

	url, err := r.prompt.Input(fmt.Sprintf("RPC URL [%s]", next.RPCURL))
	if err != nil {
		return ops.Completed, err
	}
	if url = strings.TrimSpace(url); url != "" {
		next.RPCURL = url
	}

	levels := config.Levels()
	items := make([]string, 0, len(levels))
	for _, l := range levels {
		items = append(items, string(l))
	}
	idx, err := r.prompt.Select("Commitment", items)
	if err != nil {
		return ops.Completed, err
	}
	next.Commitment = levels[idx]

	keypair, err := r.prompt.Input(fmt.Sprintf("Keypair path [%s]", next.KeypairPath))
	if err != nil {
		return ops.Completed, err
	}
	if keypair = strings.TrimSpace(keypair); keypair != "" {
		next.KeypairPath = keypair
	}

	if err := config.Save(&next, r.cfgPath); err != nil {
		return ops.Completed, err
	}

	if err := r.reloadSession(ctx, &next); err != nil {
		return ops.Completed, fmt.Errorf("configuration saved but session reload failed: %w", err)
	}

	*r.cfg = next
	r.console.Successf("Configuration saved and session reloaded")
	return ops.Completed, nil
}

// reloadSession replaces the live session with one built from cfg. The old
// session is closed only after the replacement connects, so a bad endpoint
// leaves the current session working.
func (r *Router) reloadSession(ctx context.Context, cfg *config.Config) error {
	next, err := session.New(ctx, cfg, r.logger)
	if err != nil {
		return err
	}

	r.deps.Session.Close()
	r.deps.Session = next
	r.deps.Builder = txbuilder.New(next.Gateway, r.logger)
	return nil
}
