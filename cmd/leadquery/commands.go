package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"tre_crm/internal/agentstats"
	"tre_crm/internal/leads/repository"
	"tre_crm/internal/leads/service"
	"tre_crm/internal/leads/transport"
	"tre_crm/platform/config"
	"tre_crm/platform/phone"

	"github.com/spf13/cobra"
)

type store interface {
	repository.LeadReader
	repository.AgentReader
}

type app struct {
	out  io.Writer
	open func(ctx context.Context) (store, *config.Config, func(), error)
	now  func() time.Time
	json bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "leadquery",
		Short:        "Query TRE CRM leads and agent statistics",
		SilenceUsage: true,
	}
	root.SetOut(a.out)
	root.PersistentFlags().BoolVar(&a.json, "json", false, "Output as JSON")

	root.AddCommand(newLeadsCmd(a), newAgentsCmd(a), newStatsCmd(a))
	return root
}

func newLeadsCmd(a *app) *cobra.Command {
	var (
		agentID string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), nil, func(svc *service.Service) error {
				res, err := svc.ListLeads(cmd.Context(), transport.ListLeadsQuery{AgentID: agentID, Limit: limit})
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, res)
				}

				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPHONE\tASSIGNED\tFOUND BY\tSUBMITTED")
				for _, lead := range res.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						lead.ID, lead.Name, lead.Phone,
						deref(lead.AssignedAgentID), deref(lead.FoundByAgentID), formatTime(lead.SubmittedAt))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "Only leads assigned to this agent")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of leads")
	return cmd
}

func newAgentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), nil, func(svc *service.Service) error {
				res, err := svc.ListAgents(cmd.Context())
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, res)
				}

				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tACTIVE")
				for _, agent := range res.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", agent.ID, agent.Name, agent.Email, agent.Active)
				}
				return w.Flush()
			})
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		probability float64
		windowDays  int
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "stats <agentId>",
		Short: "Compute generated, assigned and closed counts for one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(cfg *config.Config) *agentstats.Calculator {
				p := probability
				if !cmd.Flags().Changed("closed-probability") && cfg != nil {
					p = cfg.GetAgentStatsClosedProbability()
				}
				window := time.Duration(windowDays) * 24 * time.Hour
				if !cmd.Flags().Changed("window-days") && cfg != nil {
					window = cfg.GetAgentStatsWindow()
				}

				var src rand.Source
				if seed != 0 {
					src = rand.NewPCG(seed, seed)
				}
				opts := []agentstats.Option{
					agentstats.WithWindow(window),
					agentstats.WithClosedPredicate(agentstats.ClosedWithProbability(p, src)),
				}
				if a.now != nil {
					opts = append(opts, agentstats.WithClock(a.now))
				}
				return agentstats.New(opts...)
			}

			return a.withService(cmd.Context(), build, func(svc *service.Service) error {
				res, err := svc.AgentStats(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, res)
				}

				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Agent:\t%s (%s)\n", res.AgentName, res.AgentID)
				fmt.Fprintf(w, "Generated:\t%d\n", res.Generated)
				fmt.Fprintf(w, "Assigned:\t%d\n", res.Assigned)
				fmt.Fprintf(w, "Closed (last %d days):\t%d\n", res.WindowDays, res.Closed)
				return w.Flush()
			})
		},
	}

	cmd.Flags().Float64Var(&probability, "closed-probability", agentstats.DefaultClosedProbability, "Chance an in-window assigned lead counts as closed")
	cmd.Flags().IntVar(&windowDays, "window-days", int(agentstats.DefaultWindow/(24*time.Hour)), "Trailing window for the closed count")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible closed count (0 draws from the global generator)")
	return cmd
}

func (a *app) withService(ctx context.Context, build func(*config.Config) *agentstats.Calculator, fn func(*service.Service) error) error {
	st, cfg, closeFn, err := a.open(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	region := ""
	if cfg != nil {
		region = cfg.GetDefaultPhoneRegion()
	}

	var calc *agentstats.Calculator
	if build != nil {
		calc = build(cfg)
	} else {
		calc = agentstats.New()
	}

	return fn(service.New(st, st, calc, phone.NewFormatter(region)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
