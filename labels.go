package vptrack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LabelTable resolves a detector class id to its class name.  A model's
// label table is either an ordered list indexed by class id or a mapping
// keyed by the id, LabelTable accepts both so callers never need to check
// which one they hold.
type LabelTable struct {
	list   []string
	byInt  map[int]string
	byName map[string]string
}

// NewLabelList returns a LabelTable backed by an ordered list of class names
func NewLabelList(names []string) *LabelTable {
	return &LabelTable{list: names}
}

// NewLabelIntMap returns a LabelTable backed by a map keyed by class id
func NewLabelIntMap(names map[int]string) *LabelTable {
	return &LabelTable{byInt: names}
}

// NewLabelMap returns a LabelTable backed by a map keyed by the string form
// of the class id, eg: "0" => "person"
func NewLabelMap(names map[string]string) *LabelTable {

	t := &LabelTable{
		byName: names,
		byInt:  make(map[int]string),
	}

	// keys that parse as integers are also reachable by int lookup
	for k, v := range names {
		if id, err := strconv.Atoi(strings.TrimSpace(k)); err == nil {
			t.byInt[id] = v
		}
	}

	return t
}

// Name returns the class name for the given id.  If the id can not be found
// a placeholder name of "class_<id>" is returned instead.
func (t *LabelTable) Name(id int) string {

	if t != nil {
		if id >= 0 && id < len(t.list) {
			return t.list[id]
		}

		if name, ok := t.byInt[id]; ok {
			return name
		}

		if name, ok := t.byName[strconv.Itoa(id)]; ok {
			return name
		}
	}

	return fmt.Sprintf("class_%d", id)
}

// Len returns the number of labels held
func (t *LabelTable) Len() int {
	if t == nil {
		return 0
	}
	if t.list != nil {
		return len(t.list)
	}
	if len(t.byInt) > len(t.byName) {
		return len(t.byInt)
	}
	return len(t.byName)
}

// LoadLabels reads the labels the Model was trained on.  The format is
// chosen by file extension:
//
//	.txt          one label per line
//	.yaml, .yml   a dataset config with a "names" key holding a list or map
//	.json         a list of names or an object keyed by class id
func LoadLabels(file string) (*LabelTable, error) {

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return loadYAMLLabels(file)
	case ".json":
		return loadJSONLabels(file)
	default:
		return loadTextLabels(file)
	}
}

// loadTextLabels reads a text file containing one label per line
func loadTextLabels(file string) (*LabelTable, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return NewLabelList(labels), nil
}

// loadYAMLLabels reads the "names" key of a YOLO dataset config
func loadYAMLLabels(file string) (*LabelTable, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	var doc struct {
		Names yaml.Node `yaml:"names"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing yaml: %w", err)
	}

	switch doc.Names.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := doc.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("error decoding names list: %w", err)
		}
		return NewLabelList(names), nil

	case yaml.MappingNode:
		var names map[string]string
		if err := doc.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("error decoding names map: %w", err)
		}
		return NewLabelMap(names), nil
	}

	return nil, fmt.Errorf("no names found in %s", file)
}

// loadJSONLabels reads a JSON list or object of class names
func loadJSONLabels(file string) (*LabelTable, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	var list []string

	if err := json.Unmarshal(data, &list); err == nil {
		return NewLabelList(list), nil
	}

	var names map[string]string

	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("error parsing json labels: %w", err)
	}

	return NewLabelMap(names), nil
}
