// Package remove deletes tasks.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Deleter is the part of the service remove needs.
type Deleter interface {
	DeleteTask(ctx context.Context, id string) error
}

type Remove struct {
	IDs     []string
	Service Deleter
	Out     io.Writer
}

// Do deletes every ID, stopping at the first failure.
func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no persistence")
	}
	for _, id := range n.IDs {
		if err := n.Service.DeleteTask(ctx, id); err != nil {
			return err
		}
		if n.Out != nil {
			_, _ = fmt.Fprintf(n.Out, "deleted %s\n", id)
		}
	}
	return nil
}
