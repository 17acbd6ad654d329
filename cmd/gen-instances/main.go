// Command gen-instances writes the built-in worlds as scenario instance
// documents, ready to be loaded by the Loam instance source.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	loamAdapter "github.com/aretw0/taskstream/pkg/adapters/loam"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/aretw0/taskstream/pkg/scenario/rovers"
	"gopkg.in/yaml.v3"
)

type instance struct {
	meta  loamAdapter.InstanceMetadata
	notes string
}

func main() {
	targetDir := "scenarios"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}
	fmt.Printf("Generating scenario instances in: %s\n", targetDir)

	instances := map[string]instance{
		"breakfast": {
			meta: loamAdapter.InstanceMetadata{
				Scenario: kitchen.Name,
				Entities: entities(kitchen.Entities()),
				Options:  map[string]any{"max_time": 60},
			},
			notes: "The default kitchen layout: coffee with cream and sugar, stirred.",
		},
	}
	worlds := rovers.Worlds()
	for name, w := range worlds {
		check(w.Validate())
		instances[name] = instance{
			meta: loamAdapter.InstanceMetadata{
				Scenario: rovers.Name,
				Strict:   true,
				Entities: entities(w.Entities()),
			},
			notes: fmt.Sprintf("Rover world %s with %d rover(s).", name, len(w.Rovers)),
		}
	}

	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		inst := instances[name]
		inst.meta.ID = name
		check(write(filepath.Join(targetDir, name+".md"), inst))
		fmt.Println("-", name)
	}

	fmt.Println("Done. Verify contents in", targetDir)
}

func entities(in []domain.Entity) []loamAdapter.EntityMetadata {
	out := make([]loamAdapter.EntityMetadata, len(in))
	for i, e := range in {
		out[i] = loamAdapter.EntityMetadata{
			Name:       e.Name,
			Keywords:   e.Keywords,
			Pose:       domain.EncodeValue(e.Pose),
			Attributes: e.Attributes,
		}
	}
	return out
}

// write renders the instance as a markdown document with YAML frontmatter.
func write(path string, inst instance) error {
	front, err := yaml.Marshal(inst.meta)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n")
	buf.WriteString(inst.notes)
	buf.WriteString("\n")
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
