package uid

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out time-ordered unique IDs for a single machine.
type Generator struct {
	node *snowflake.Node
}

func New(machineID int64) (*Generator, error) {
	node, err := snowflake.NewNode(machineID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snowflake node %d: %w", machineID, err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Generate() int64 {
	return g.node.Generate().Int64()
}

func (g *Generator) GenerateString() string {
	return g.node.Generate().String()
}
