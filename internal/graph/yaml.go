package graph

import (
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrSnapshotReadFailed is returned when a snapshot file cannot be read.
	ErrSnapshotReadFailed = zerr.New("failed to read graph snapshot")

	// ErrSnapshotParseFailed is returned when a snapshot document is malformed.
	ErrSnapshotParseFailed = zerr.New("failed to parse graph snapshot")

	// ErrUnknownNode is returned when an edge references a node the snapshot does not list.
	ErrUnknownNode = zerr.New("edge references unknown node")
)

// SnapshotDTO is the YAML form of a snapshot. Nodes are display names.
type SnapshotDTO struct {
	Nodes []string            `yaml:"nodes"`
	Edges map[string][]string `yaml:"edges,omitempty"`
}

// EncodeYAML renders s with every node replaced by its label.
func EncodeYAML[N comparable](s Snapshot[N], label Labeler[N]) ([]byte, error) {
	dto := SnapshotDTO{Nodes: make([]string, 0, len(s.Nodes))}
	for _, n := range s.Nodes {
		dto.Nodes = append(dto.Nodes, label(n))
	}
	for _, n := range s.Nodes {
		deps := s.Edges[n]
		if len(deps) == 0 {
			continue
		}
		if dto.Edges == nil {
			dto.Edges = make(map[string][]string)
		}
		to := make([]string, len(deps))
		for i, d := range deps {
			to[i] = label(d)
		}
		dto.Edges[label(n)] = to
	}

	out, err := yaml.Marshal(&dto)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal graph snapshot")
	}
	return out, nil
}

// DecodeYAML parses a snapshot document. Every edge endpoint must be listed
// under nodes.
func DecodeYAML(data []byte) (Snapshot[string], error) {
	var dto SnapshotDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return Snapshot[string]{}, zerr.Wrap(err, ErrSnapshotParseFailed.Error())
	}

	g := New[string]()
	for _, n := range dto.Nodes {
		g.AddNode(n)
	}
	for _, from := range dto.Nodes {
		for _, to := range dto.Edges[from] {
			if !g.HasNode(to) {
				return Snapshot[string]{}, zerr.With(zerr.With(ErrUnknownNode, "from", from), "to", to)
			}
			g.AddEdge(from, to)
		}
	}
	for from := range dto.Edges {
		if !g.HasNode(from) {
			return Snapshot[string]{}, zerr.With(ErrUnknownNode, "from", from)
		}
	}

	return g.Snapshot(), nil
}

// ReadYAML loads a snapshot file from disk.
func ReadYAML(path string) (Snapshot[string], error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		err = zerr.Wrap(err, ErrSnapshotReadFailed.Error())
		return Snapshot[string]{}, zerr.With(err, "path", path)
	}
	s, err := DecodeYAML(data)
	if err != nil {
		return Snapshot[string]{}, zerr.With(err, "path", path)
	}
	return s, nil
}
