package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Executor writes every command as one JSON line, for a robot-side process
// reading a pipe or file.
type Executor struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewExecutor writes commands to w.
func NewExecutor(w io.Writer) *Executor {
	return &Executor{enc: json.NewEncoder(w)}
}

// Execute writes commands in order.
func (e *Executor) Execute(ctx context.Context, commands []domain.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.enc.Encode(domain.EncodeCommand(c)); err != nil {
			return fmt.Errorf("write command %d: %w", i, err)
		}
	}
	return nil
}
