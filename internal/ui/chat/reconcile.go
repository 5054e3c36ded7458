// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/advisor-tui/internal/model"

// reconcile merges the view's local message list with the store's list
// for the same conversation. Three outcomes:
//
//   - The store contains every local message plus new ones: adopt the
//     store list wholesale. Remote wins when it strictly supersedes.
//   - The store has messages the view lacks, but the view also holds
//     local-only messages (an optimistic send, a synthesized error
//     bubble): take the union by id, ordered by timestamp.
//   - Otherwise the view is current or ahead: keep the local list.
//
// The result never contains two messages with the same id.
func reconcile(local, fromStore []model.Message) []model.Message {
	if len(fromStore) == 0 {
		return local
	}
	if len(local) == 0 {
		return append([]model.Message(nil), fromStore...)
	}

	storeIDs := model.MessageIDs(fromStore)
	localIDs := model.MessageIDs(local)

	allLocalInStore := true
	for id := range localIDs {
		if _, ok := storeIDs[id]; !ok {
			allLocalInStore = false
			break
		}
	}
	storeHasNew := false
	for id := range storeIDs {
		if _, ok := localIDs[id]; !ok {
			storeHasNew = true
			break
		}
	}

	switch {
	case allLocalInStore && storeHasNew:
		return append([]model.Message(nil), fromStore...)
	case storeHasNew:
		merged := append([]model.Message(nil), local...)
		for _, msg := range fromStore {
			if _, ok := localIDs[msg.ID]; !ok {
				merged = append(merged, msg)
			}
		}
		model.SortMessages(merged)
		return merged
	default:
		return local
	}
}
