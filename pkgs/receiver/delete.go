package receiver

import (
	"math"

	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

// DeleteMessage deletes the message with the given sequence number by
// flagging it deleted and expunging the folder. A failed flag set is
// logged and reported as false without expunging; a failed expunge is a
// folder-operation error. The folder is closed in every case.
func (c *Client) DeleteMessage(folderName string, id int) (bool, error) {
	var deleted bool
	err := c.withFolder(folderName, transport.ReadWrite, func(f transport.Folder) error {
		if err := c.markDeleted(f, id); err != nil {
			c.logger.Warn("the message wasn't marked as deleted",
				"id", id, "folder", f.Name(), "error", err)
			return nil
		}
		if err := f.Expunge(); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// DeleteMessages deletes the given sequence numbers. Every id is flagged
// independently and recorded in the result mapping; one id's failure
// never aborts the rest. The folder is expunged once, after all ids have
// been attempted.
func (c *Client) DeleteMessages(folderName string, ids []int) (map[int]bool, error) {
	result := make(map[int]bool, len(ids))
	err := c.withFolder(folderName, transport.ReadWrite, func(f transport.Folder) error {
		for _, id := range ids {
			if err := c.markDeleted(f, id); err != nil {
				c.logger.Warn("the message wasn't marked as deleted",
					"id", id, "folder", f.Name(), "error", err)
				result[id] = false
				continue
			}
			result[id] = true
		}
		return f.Expunge()
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// DeleteAllMessages deletes every message in the folder, keyed by the
// live sequence number of each message. Expunge runs once at the end, so
// sequence numbers stay stable while flags are being set.
func (c *Client) DeleteAllMessages(folderName string) (map[int]bool, error) {
	result := make(map[int]bool)
	err := c.withFolder(folderName, transport.ReadWrite, func(f transport.Folder) error {
		msgs, err := c.fetchPage(f, message.PageOf(0, math.MaxInt))
		if err != nil {
			return err
		}
		for _, m := range msgs {
			if err := m.SetFlag(transport.FlagDeleted, true); err != nil {
				c.logger.Warn("the message wasn't marked as deleted",
					"id", m.SeqNum(), "folder", f.Name(), "error", err)
				result[m.SeqNum()] = false
				continue
			}
			result[m.SeqNum()] = true
		}
		return f.Expunge()
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// markDeleted resolves one id and sets its deleted flag.
func (c *Client) markDeleted(f transport.Folder, id int) error {
	msg, err := f.Message(id)
	if err != nil {
		return err
	}
	return msg.SetFlag(transport.FlagDeleted, true)
}
