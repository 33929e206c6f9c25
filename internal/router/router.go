// Package router drives the interactive loop. It is a small state
// machine: the main menu selects an operation group, a group menu selects
// a leaf, and every leaf reports one outcome. Leaf failures are printed as
// a single line and the loop resumes at the same menu; only an explicit
// exit (or a closed prompt at the main menu) terminates it.
package router

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/solettadev/soletta/internal/config"
	"github.com/solettadev/soletta/internal/ops"
	"github.com/solettadev/soletta/internal/session"
	"github.com/solettadev/soletta/internal/txbuilder"
	"github.com/solettadev/soletta/internal/ui"
)

// State is the router's position in the menu hierarchy.
type State int

const (
	StateMainMenu State = iota
	StateGroupMenu
	StateTerminated
)

// Leaf is one runnable menu entry.
type Leaf struct {
	Label string
	Run   func(ctx context.Context) (ops.Outcome, error)
}

// Group is a named operation group with its leaves. Every group ends with
// a back leaf.
type Group struct {
	Name   string
	Leaves []Leaf
}

// Router owns the configuration, the live session, and the menu tree.
type Router struct {
	cfg     *config.Config
	cfgPath string
	logger  zerolog.Logger

	deps    *ops.Deps
	console *ui.Console
	prompt  ui.Prompter

	groups  []Group
	state   State
	current int
}

// New builds a router around an established session. The deps bundle is
// mutated in place on configuration reload so every group observes the
// replacement session immediately.
func New(cfg *config.Config, cfgPath string, sess *session.Session, console *ui.Console, prompt ui.Prompter, logger zerolog.Logger) *Router {
	deps := &ops.Deps{
		Session: sess,
		Builder: txbuilder.New(sess.Gateway, logger),
		Console: console,
		Prompt:  prompt,
	}

	r := &Router{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  logger.With().Str("component", "router").Logger(),
		deps:    deps,
		console: console,
		prompt:  prompt,
		state:   StateMainMenu,
	}
	r.groups = r.buildGroups()
	return r
}

func backLeaf() Leaf {
	return Leaf{Label: "Go back", Run: func(context.Context) (ops.Outcome, error) {
		return ops.Back, nil
	}}
}

func (r *Router) buildGroups() []Group {
	account := ops.NewAccountOps(r.deps)
	stake := ops.NewStakeOps(r.deps)
	vote := ops.NewVoteOps(r.deps)

	return []Group{
		{
			Name: "Account",
			Leaves: []Leaf{
				{Label: "Show balance", Run: account.Balance},
				{Label: "Transfer SOL", Run: account.Transfer},
				{Label: "Request airdrop (1 SOL)", Run: account.Airdrop},
				{Label: "Inspect account", Run: account.ShowAccount},
				{Label: "Inspect nonce account", Run: account.NonceAccount},
				{Label: "Largest accounts", Run: account.LargestAccounts},
				{Label: "Transaction history", Run: account.History},
				backLeaf(),
			},
		},
		{
			Name: "Stake",
			Leaves: []Leaf{
				{Label: "Create stake account", Run: stake.Create},
				{Label: "Deactivate stake", Run: stake.Deactivate},
				{Label: "Withdraw stake", Run: stake.Withdraw},
				{Label: "Show stake account", Run: stake.Show},
				backLeaf(),
			},
		},
		{
			Name: "Vote",
			Leaves: []Leaf{
				{Label: "Create vote account", Run: vote.Create},
				{Label: "Authorize new voter", Run: vote.AuthorizeVoter},
				{Label: "Withdraw from vote account", Run: vote.Withdraw},
				{Label: "Show vote account", Run: vote.Show},
				backLeaf(),
			},
		},
		{
			Name: "Config",
			Leaves: []Leaf{
				{Label: "Show configuration", Run: r.showConfig},
				{Label: "Edit configuration", Run: r.editConfig},
				backLeaf(),
			},
		},
	}
}

// Run drives the loop until the state machine terminates.
func (r *Router) Run(ctx context.Context) {
	for r.state != StateTerminated {
		switch r.state {
		case StateMainMenu:
			r.runMainMenu(ctx)
		case StateGroupMenu:
			r.runGroupMenu(ctx)
		}
	}
	r.deps.Session.Close()
}

func (r *Router) runMainMenu(_ context.Context) {
	items := make([]string, 0, len(r.groups)+1)
	for _, g := range r.groups {
		items = append(items, g.Name)
	}
	items = append(items, "Exit")

	idx, err := r.prompt.Select("Soletta", items)
	if err != nil || idx == len(r.groups) {
		r.state = StateTerminated
		return
	}
	r.current = idx
	r.state = StateGroupMenu
}

func (r *Router) runGroupMenu(ctx context.Context) {
	group := r.groups[r.current]
	items := make([]string, 0, len(group.Leaves))
	for _, l := range group.Leaves {
		items = append(items, l.Label)
	}

	idx, err := r.prompt.Select(group.Name, items)
	if err != nil {
		r.state = StateMainMenu
		return
	}

	outcome, err := group.Leaves[idx].Run(ctx)
	if err != nil {
		r.console.Errorf("Error: %v", err)
		r.logger.Debug().Err(err).Str("operation", group.Leaves[idx].Label).Msg("operation failed")
	}

	switch outcome {
	case ops.Back:
		r.state = StateMainMenu
	case ops.Exit:
		r.state = StateTerminated
	}
}
