package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var eventCategory string

// eventsCmd is the parent command for events
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List and remove events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events with their attendance",
	Args:  cobra.NoArgs,
	RunE:  runEventsList,
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event and its registrations",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsDelete,
}

// campaignsCmd is the parent command for campaigns
var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Inspect fundraising campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns with progress toward their goals",
	Args:  cobra.NoArgs,
	RunE:  runCampaignsList,
}

// menuCmd is the parent command for navigation
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Inspect site navigation",
}

var menuTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the navigation tree as visitors see it",
	Args:  cobra.NoArgs,
	RunE:  runMenuTree,
}

func runEventsList(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	events, err := c.Events(commandContext(cmd), eventCategory)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE\tATTENDEES")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Time, e.Title, attendance(e.CurrentAttendees, e.MaxAttendees))
	}
	return tw.Flush()
}

func runEventsDelete(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}
	if err := c.DeleteEvent(commandContext(cmd), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
	return nil
}

func runCampaignsList(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	cards, err := c.CampaignCards(commandContext(cmd))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tRAISED\tGOAL\tPROGRESS\tSTATUS")
	for _, card := range cards {
		progress, status := "-", card.Notice
		if card.CanDonate() || card.Progress.Closed {
			progress = strconv.Itoa(card.Progress.RoundedPercent()) + "%"
		}
		if card.CanDonate() {
			status = fmt.Sprintf("%d days left", card.Progress.DaysRemaining)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", card.Campaign.ID, card.Campaign.Title,
			card.Campaign.Raised, card.Campaign.Goal, progress, status)
	}
	return tw.Flush()
}

func runMenuTree(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	nodes, err := c.Navigation(commandContext(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, n := range nodes {
		fmt.Fprintf(out, "%s  %s\n", n.Item.Title, n.Item.URL)
		for _, child := range n.Children {
			fmt.Fprintf(out, "  - %s  %s\n", child.Title, child.URL)
		}
	}
	return nil
}

func attendance(current, limit *int) string {
	n := 0
	if current != nil {
		n = *current
	}
	if limit == nil {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d/%d", n, *limit)
}
