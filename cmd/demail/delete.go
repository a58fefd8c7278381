package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteYes bool

func init() {
	deleteAllCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false,
		"Do not ask for confirmation")
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete messages by sequence number",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid message id %q", arg)
			}
			ids = append(ids, id)
		}

		client, store, err := openReceiver()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(ids) == 1 {
			deleted, err := client.DeleteMessage(folderName, ids[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("message %d was not deleted", ids[0])
			}
			fmt.Printf("deleted %d\n", ids[0])
			return nil
		}

		result, err := client.DeleteMessages(folderName, ids)
		if err != nil {
			return err
		}
		printDeleteResult(result)
		return nil
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every message in the folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("refusing to delete all messages without --yes")
		}

		client, store, err := openReceiver()
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := client.DeleteAllMessages(folderName)
		if err != nil {
			return err
		}
		printDeleteResult(result)
		return nil
	},
}

func printDeleteResult(result map[int]bool) {
	ids := make([]int, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		status := "failed"
		if result[id] {
			status = "deleted"
		}
		fmt.Printf("%d: %s\n", id, status)
	}
}
