package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/taskhive/groupsync/internal/common"
	"github.com/taskhive/groupsync/internal/model"
)

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Name = "groupsync"
	app.Usage = "Keep workspace group chats synchronized and run bulk operations on them"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the toml config file",
			Value: "groupsync.toml",
		},
	}
	app.Before = func(cliCtx *cli.Context) error {
		return s.load(cliCtx.String("config"))
	}

	app.Commands = []*cli.Command{
		{
			Action:      s.listGroups,
			Name:        "groups",
			Usage:       "List the visible groups of the workspace",
			Category:    "Directory",
			Description: `Fetches the directory, falls back to the local cache when the workspace is unreachable.`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "query", Usage: "Filter groups by name"},
				&cli.StringFlag{Name: "sort", Usage: "Sort by created_at or last_message_at", Value: model.SortByCreatedAt},
				&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
				&cli.StringFlag{Name: "workspace", Usage: "Override the configured workspace id"},
			},
		},
		{
			Action:      s.watchGroup,
			Name:        "watch",
			Usage:       "Open a group and follow its transcript",
			ArgsUsage:   "<group-id>",
			Category:    "Sync",
			Description: `Prints the transcript, then keeps polling and prints new messages until interrupted.`,
		},
		{
			Action:    s.sendMessage,
			Name:      "send",
			Usage:     "Send a message to a group",
			ArgsUsage: "<group-id> <text>",
			Category:  "Sync",
		},
		{
			Action:    s.clearChat,
			Name:      "clear",
			Usage:     "Delete every message of a group",
			ArgsUsage: "<group-id>",
			Category:  "Sync",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
			},
		},
		{
			Action:      s.editMembers,
			Name:        "members",
			Usage:       "Edit the members of a group",
			ArgsUsage:   "<group-id>",
			Category:    "Membership",
			Description: `Diffs the requested changes against the current membership and pushes the minimal delta.`,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "add", Usage: "User id to add"},
				&cli.StringSliceFlag{Name: "remove", Usage: "User id to remove"},
			},
		},
		{
			Action:    s.bulkBroadcast,
			Name:      "broadcast",
			Usage:     "Send one message to many groups",
			ArgsUsage: "<group-id>...",
			Category:  "Bulk",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "message", Usage: "The message to broadcast", Required: true},
			},
		},
		{
			Action:    s.bulkClearChat,
			Name:      "clear-chat",
			Usage:     "Delete every message of many groups",
			ArgsUsage: "<group-id>...",
			Category:  "Bulk",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
			},
		},
		{
			Action:      s.bulkDeleteGroups,
			Name:        "delete",
			Usage:       "Delete many groups",
			ArgsUsage:   "<group-id>...",
			Category:    "Bulk",
			Description: `Asks to type the number of selected groups before anything is deleted.`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "confirm-token", Usage: "The number of selected groups, spelled out"},
			},
		},
	}

	s.app = app
}

func (s *srv) listGroups(cliCtx *cli.Context) error {
	resp, err := s.directoryDomain.GetGroups(s.ctx, &model.GetGroupsRequest{
		WorkspaceID: cliCtx.String("workspace"),
		Query:       cliCtx.String("query"),
		SortBy:      cliCtx.String("sort"),
		Page:        cliCtx.Int("page"),
	})
	if err != nil {
		return err
	}

	for _, item := range resp.Groups {
		marker := " "
		if item.Unread {
			marker = "*"
		}

		preview := ""
		if item.LastMessage != nil {
			preview = fmt.Sprintf("%s: %s", item.LastMessage.AuthorName, item.LastMessage.Content)
		}

		fmt.Printf("%s %-12s %-24s %2d members  %s\n",
			marker, item.Group.ID, item.Group.Name, item.MemberCount, preview)
	}

	fmt.Printf("page %d/%d, %d groups\n", resp.Page, resp.PageCount, resp.Total)
	return nil
}

func (s *srv) watchGroup(cliCtx *cli.Context) error {
	groupID := cliCtx.Args().First()
	if groupID == "" {
		return fmt.Errorf("usage: groupsync watch <group-id>")
	}

	printed := 0
	s.syncEngine.OnChange(func() {
		transcript := s.syncEngine.Transcript()
		if len(transcript) < printed {
			printed = 0
		}
		for _, message := range transcript[printed:] {
			printMessage(message)
		}
		printed = len(transcript)
	})

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The callback already prints the initial transcript during the
	// blocking first fetch.
	if _, err := s.syncEngine.Open(ctx, groupID); err != nil {
		return err
	}
	defer s.syncEngine.Close()

	<-ctx.Done()
	return nil
}

func (s *srv) sendMessage(cliCtx *cli.Context) error {
	groupID := cliCtx.Args().First()
	text := strings.Join(cliCtx.Args().Tail(), " ")
	if groupID == "" || text == "" {
		return fmt.Errorf("usage: groupsync send <group-id> <text>")
	}

	if _, err := s.syncEngine.Open(s.ctx, groupID); err != nil {
		return err
	}
	defer s.syncEngine.Close()

	message, err := s.syncEngine.Send(s.ctx, text)
	if err != nil {
		return err
	}

	printMessage(*message)
	return nil
}

func (s *srv) clearChat(cliCtx *cli.Context) error {
	groupID := cliCtx.Args().First()
	if groupID == "" {
		return fmt.Errorf("usage: groupsync clear <group-id>")
	}

	if !cliCtx.Bool("yes") && !confirm(fmt.Sprintf("Delete every message of %s?", groupID)) {
		fmt.Println("aborted")
		return nil
	}

	if _, err := s.syncEngine.Open(s.ctx, groupID); err != nil {
		return err
	}
	defer s.syncEngine.Close()

	return s.syncEngine.Clear(s.ctx)
}

func (s *srv) editMembers(cliCtx *cli.Context) error {
	groupID := cliCtx.Args().First()
	if groupID == "" {
		return fmt.Errorf("usage: groupsync members <group-id> [--add id] [--remove id]")
	}

	_, selection, err := s.membershipEditor.BeginEdit(s.ctx, groupID)
	if err != nil {
		return err
	}

	for _, id := range cliCtx.StringSlice("add") {
		selection.Add(id)
	}
	for _, id := range cliCtx.StringSlice("remove") {
		selection.Remove(id)
	}

	resp, err := s.membershipEditor.Commit(s.ctx, groupID, selection)
	if err != nil {
		return err
	}

	if resp.Delta.Empty() {
		fmt.Println("no changes")
		return nil
	}

	fmt.Printf("added %v, removed %v; %d members now\n",
		resp.Delta.AddUserIDs, resp.Delta.RemoveUserIDs, len(resp.Group.Members))
	return nil
}

func (s *srv) bulkBroadcast(cliCtx *cli.Context) error {
	selection, err := argsSelection(cliCtx)
	if err != nil {
		return err
	}

	resp, err := s.bulkRunner.Run(s.ctx, &model.BulkActionRequest{
		Action:  model.BulkBroadcast,
		Message: cliCtx.String("message"),
	}, selection)
	if err != nil {
		return err
	}

	fmt.Printf("broadcast to %d of %d groups\n", resp.Succeeded, resp.Total)
	return nil
}

func (s *srv) bulkClearChat(cliCtx *cli.Context) error {
	selection, err := argsSelection(cliCtx)
	if err != nil {
		return err
	}

	confirmed := cliCtx.Bool("yes")
	if !confirmed {
		confirmed = confirm(fmt.Sprintf("Delete every message of %d groups?", selection.Len()))
	}

	resp, err := s.bulkRunner.Run(s.ctx, &model.BulkActionRequest{
		Action:    model.BulkClearChat,
		Confirmed: confirmed,
	}, selection)
	if err != nil {
		return err
	}

	fmt.Printf("cleared %d of %d groups\n", resp.Succeeded, resp.Total)
	return nil
}

func (s *srv) bulkDeleteGroups(cliCtx *cli.Context) error {
	selection, err := argsSelection(cliCtx)
	if err != nil {
		return err
	}

	token := cliCtx.String("confirm-token")
	if token == "" {
		fmt.Printf("Deleting %d groups cannot be undone.\n", selection.Len())
		token = prompt(fmt.Sprintf("Type %d to continue: ", selection.Len()))
	}

	resp, err := s.bulkRunner.Run(s.ctx, &model.BulkActionRequest{
		Action:       model.BulkDeleteGroup,
		Confirmed:    true,
		ConfirmToken: token,
	}, selection)
	if err != nil {
		return err
	}

	fmt.Printf("deleted %d of %d groups\n", resp.Succeeded, resp.Total)
	return nil
}

func argsSelection(cliCtx *cli.Context) (*common.Selection, error) {
	if cliCtx.Args().Len() == 0 {
		return nil, fmt.Errorf("usage: groupsync %s <group-id>...", cliCtx.Command.Name)
	}

	selection := common.NewSelection()
	selection.SelectAll(cliCtx.Args().Slice())
	return selection, nil
}

func printMessage(message model.ChatMessage) {
	fmt.Printf("[%s] %s: %s\n",
		message.CreatedAt.Local().Format("2006-01-02 15:04"), message.AuthorName, message.Content)
}

func prompt(question string) string {
	fmt.Print(question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(answer)
}

func confirm(question string) bool {
	answer := prompt(question + " [y/N] ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
