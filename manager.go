package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ttpr0/go-accessibility/attach"
	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"github.com/ttpr0/go-accessibility/batched/nearest"
	"github.com/ttpr0/go-accessibility/comps"
	"github.com/ttpr0/go-accessibility/geo"
	"github.com/ttpr0/go-accessibility/graph"
	"github.com/ttpr0/go-accessibility/parser"
	"github.com/ttpr0/go-accessibility/preproc"
	"github.com/ttpr0/go-accessibility/storage"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// run manager
//**********************************************************

// Runs the nearest facility computation of a config:
// network -> repair -> attach points -> buffered engine -> output.
type RunManager struct {
	config   Config
	progress *buffered.LogProgress
	status   *StatusServer
}

func NewRunManager(config Config) *RunManager {
	progress := buffered.NewLogProgress(10000)
	return &RunManager{
		config:   config,
		progress: progress,
		status:   NewStatusServer(progress),
	}
}

func (self *RunManager) Status() *StatusServer {
	return self.status
}

// Side of the computation after attaching its points to the network.
type _PointSet struct {
	rows     List[parser.PointRow]
	attached List[attach.Attached]
	// points were attached beforehand
	external bool
}

func (self *RunManager) Run(ctx context.Context) (buffered.RunStats, error) {
	base, attributes, mapping, err := self._LoadNetwork(ctx)
	if err != nil {
		return buffered.RunStats{}, err
	}
	network_index := comps.NewGraphIndex(base)

	facilities, err := self._AttachPoints(&base, &attributes, network_index, mapping, self.config.Facilities)
	if err != nil {
		return buffered.RunStats{}, err
	}
	points, err := self._AttachPoints(&base, &attributes, network_index, mapping, self.config.Points)
	if err != nil {
		return buffered.RunStats{}, err
	}

	// iterate over the smaller side
	mode := buffered.ChooseMode(facilities.attached.Length(), points.attached.Length())
	var query_set, target_set _PointSet
	switch mode {
	case buffered.FEW_TO_MANY:
		query_set, target_set = facilities, points
	case buffered.MANY_TO_FEW:
		query_set, target_set = points, facilities
	}
	queries, err := self._BuildQueries(query_set, target_set, mapping)
	if err != nil {
		return buffered.RunStats{}, err
	}
	targets := NewList[int32](target_set.attached.Length())
	for _, t := range target_set.attached {
		targets.Add(t.Node)
	}

	weight, err := comps.BuildWeighting(attributes, self.config.Routing.Metric)
	if err != nil {
		return buffered.RunStats{}, err
	}
	g := graph.BuildGraph(base, weight, None[comps.IGraphIndex]())

	opts := self.config.RoutingOptions()
	opts.Progress = self.progress
	var completed func(id int64) bool
	var checkpoint *storage.Checkpoint
	if self.config.Checkpoint.File != "" {
		checkpoint, err = storage.NewCheckpoint(self.config.Checkpoint.File, self.config.Checkpoint.Every)
		if err != nil {
			return buffered.RunStats{}, err
		}
		defer func() {
			if err := checkpoint.Close(); err != nil {
				slog.Warn("failed to close checkpoint: " + err.Error())
			}
		}()
		if err := checkpoint.SetRunKey(self._RunKey()); err != nil {
			return buffered.RunStats{}, err
		}
		opts.Sink = checkpoint
		opts.Skip = func(id int64) bool {
			return completed(id)
		}
	}

	engine, err := buffered.NewEngine(g, queries, targets, mode, opts)
	if err != nil {
		return buffered.RunStats{}, err
	}
	if checkpoint != nil {
		completed, err = checkpoint.Resume(engine.GetTable())
		if err != nil {
			return buffered.RunStats{}, err
		}
		slog.Info("resumed from checkpoint", "file", self.config.Checkpoint.File, "vertices", engine.GetTable().Length())
	}
	vertices := _VertexNodes(points, mapping)
	self.status.SetTable(engine.GetTable(), func(vertex int64) (int32, bool) {
		node, ok := vertices[vertex]
		return node, ok
	})

	stats, err := engine.Run(ctx)
	if err != nil {
		return stats, err
	}
	slog.Info("finished queries",
		"validated", stats.Count(buffered.VALIDATED),
		"unvalidated", stats.Count(buffered.UNVALIDATED),
		"dropped", stats.Count(buffered.DROPPED),
		"empty", stats.Count(buffered.EMPTY),
		"abandoned", stats.Count(buffered.ABANDONED),
		"skipped", stats.Count(buffered.SKIPPED),
	)

	if err := parser.WriteDistances(self.config.Output, _JoinDistances(points, mapping, engine.GetTable())); err != nil {
		return stats, err
	}
	slog.Info("wrote distances", "file", self.config.Output)

	if self.config.Verify {
		report, err := VerifyDistances(ctx, g, facilities, points, engine.GetTable(), opts)
		if err != nil {
			return stats, err
		}
		slog.Info("verified distances", "checked", report.Checked, "truncated", report.Truncated,
			"missing", report.Missing, "max-error", report.MaxError)
	}
	return stats, nil
}

//**********************************************************
// verification
//**********************************************************

type VerifyReport struct {
	Checked int
	// points with a longer distance than the exact one
	Truncated int
	// points without distance that are reachable
	Missing  int
	MaxError float64
}

// Compares the distances of the table with an exact search from all
// facilities over the full network.
func VerifyDistances(ctx context.Context, g graph.IGraph, facilities _PointSet, points _PointSet, table *buffered.DistanceTable, opts buffered.Options) (VerifyReport, error) {
	max_range := math.Inf(1)
	if opts.Cutoff.HasValue() {
		max_range = opts.Cutoff.Value
	}
	sources := NewList[Array[Tuple[int32, float64]]](facilities.attached.Length())
	for _, f := range facilities.attached {
		sources.Add(Array[Tuple[int32, float64]]{MakeTuple(f.Node, 0.0)})
	}
	solver := nearest.NewManyDijkstra(g, max_range).CreateSolver()
	if err := solver.CalcNearestNeighbours(ctx, sources); err != nil {
		return VerifyReport{}, err
	}

	const eps = 1e-9
	report := VerifyReport{}
	for _, p := range points.attached {
		report.Checked += 1
		exact, reached := solver.GetDistance(p.Node)
		dist, ok := table.Get(p.Node)
		switch {
		case !ok && reached:
			report.Missing += 1
		case ok && dist > exact+eps:
			report.Truncated += 1
			report.MaxError = math.Max(report.MaxError, dist-exact)
		}
	}
	return report, nil
}

//**********************************************************
// network
//**********************************************************

// Loads the stored network or builds, repairs and stores it.
func (self *RunManager) _LoadNetwork(ctx context.Context) (*comps.GraphBase, *attr.GraphAttributes, parser.IDMapping, error) {
	net := self.config.Network
	if !net.Build && FileExists(net.Graph+"-nodes") {
		slog.Info("loading network", "path", net.Graph)
		base, err := comps.Load[*comps.GraphBase](net.Graph)
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
		attributes, err := attr.Load(net.Graph)
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
		if attributes.EdgeCount() != base.EdgeCount() {
			return nil, nil, parser.IDMapping{}, fmt.Errorf("stored network %v has %v edges but %v edge attributes", net.Graph, base.EdgeCount(), attributes.EdgeCount())
		}
		mapping, err := parser.LoadIDMapping(net.Graph)
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
		return base, attributes, mapping, nil
	}

	var base *comps.GraphBase
	var attributes *attr.GraphAttributes
	var mapping parser.IDMapping
	var err error
	if net.OSM != "" {
		base, attributes, err = parser.ParseGraph(ctx, net.OSM, &parser.DrivingDecoder{})
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
		mapping = parser.IdentityMapping(base.NodeCount())
	} else {
		slog.Info("reading network", "nodes", net.Nodes, "edges", net.Edges)
		base, attributes, mapping, err = parser.ReadNetworkCSV(net.Nodes, net.Edges)
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
	}

	switch self.config.Repair.Mode {
	case REPAIR_CONNECT:
		base, attributes, err = preproc.RepairConnectivity(base, attributes, preproc.ConnectivityOptions{
			ConnectorSpeed: self.config.Repair.ConnectorSpeed,
			MaxPasses:      self.config.Repair.MaxPasses,
		})
		if err != nil {
			return nil, nil, parser.IDMapping{}, err
		}
	case REPAIR_REMOVE:
		var removed Array[int32]
		base, attributes, removed = preproc.RemoveDisconnected(base, attributes)
		mapping = mapping.Remap(removed)
	}

	if err := os.MkdirAll(filepath.Dir(net.Graph), 0755); err != nil {
		return nil, nil, parser.IDMapping{}, err
	}
	if err := comps.Store(base, net.Graph); err != nil {
		return nil, nil, parser.IDMapping{}, err
	}
	if err := attr.Store(attributes, net.Graph); err != nil {
		return nil, nil, parser.IDMapping{}, err
	}
	if err := parser.StoreIDMapping(mapping, net.Graph); err != nil {
		return nil, nil, parser.IDMapping{}, err
	}
	slog.Info("stored network", "path", net.Graph, "nodes", base.NodeCount(), "edges", base.EdgeCount())
	return base, attributes, mapping, nil
}

//**********************************************************
// points
//**********************************************************

// Reads a point table and attaches it to the network.
//
// Tables with a node id on every row are used as attached, all others are
// added to the network as new nodes.
func (self *RunManager) _AttachPoints(base **comps.GraphBase, attributes **attr.GraphAttributes, index comps.IGraphIndex, mapping parser.IDMapping, opts PointOptions) (_PointSet, error) {
	rows, err := parser.ReadPoints(opts.File)
	if err != nil {
		return _PointSet{}, err
	}
	external := rows.Length() > 0
	for _, row := range rows {
		if row.Node == nil {
			external = false
			break
		}
	}

	if external {
		attached := NewList[attach.Attached](rows.Length())
		for _, row := range rows {
			node, ok := mapping.GetNode(*row.Node)
			if !ok {
				return _PointSet{}, fmt.Errorf("%w: point %v references unknown node %v", buffered.ErrInvalidConfiguration, row.ID, *row.Node)
			}
			attached.Add(attach.Attached{ID: row.ID, Loc: geo.Coord{row.Easting, row.Northing}, Node: node})
		}
		return _PointSet{rows: rows, attached: attached, external: true}, nil
	}

	points := make([]attach.Point, rows.Length())
	for i, row := range rows {
		points[i] = attach.Point{ID: row.ID, Loc: geo.Coord{row.Easting, row.Northing}}
	}
	new_base, new_attributes, attached, err := attach.AddToGraph(*base, *attributes, index, points, opts.K, opts.LinkSpeed)
	if err != nil {
		return _PointSet{}, fmt.Errorf("failed to attach %v: %w", opts.File, err)
	}
	*base = new_base
	*attributes = new_attributes
	return _PointSet{rows: rows, attached: attached}, nil
}

// Uses the buffers and top nodes of attached queries, computes them otherwise.
func (self *RunManager) _BuildQueries(query_set _PointSet, target_set _PointSet, mapping parser.IDMapping) (List[buffered.QueryPoint], error) {
	precomputed := query_set.external
	for _, row := range query_set.rows {
		if row.Buffer == nil || len(row.TopNodes) == 0 {
			precomputed = false
			break
		}
	}
	if !precomputed {
		return attach.AddTopK(query_set.attached, target_set.attached, self.config.Anchors)
	}

	queries := NewList[buffered.QueryPoint](query_set.rows.Length())
	for i, row := range query_set.rows {
		if math.IsNaN(*row.Buffer) || *row.Buffer < 0 {
			return nil, fmt.Errorf("%w: point %v has buffer %v", buffered.ErrInvalidConfiguration, row.ID, *row.Buffer)
		}
		anchors := make([]int32, 0, len(row.TopNodes))
		for _, id := range row.TopNodes {
			node, ok := mapping.GetNode(id)
			if !ok {
				return nil, fmt.Errorf("%w: point %v references unknown top node %v", buffered.ErrInvalidConfiguration, row.ID, id)
			}
			anchors = append(anchors, node)
		}
		q := query_set.attached[i]
		queries.Add(buffered.QueryPoint{
			ID:         q.ID,
			Node:       q.Node,
			Loc:        q.Loc,
			SeedRadius: *row.Buffer,
			Anchors:    anchors,
		})
	}
	return queries, nil
}

//**********************************************************
// output
//**********************************************************

// External vertex id of every point: its network node id if attached
// beforehand, the point id otherwise.
func _VertexID(set _PointSet, i int, mapping parser.IDMapping) int64 {
	if set.external {
		return mapping.GetID(set.attached[i].Node)
	}
	return set.attached[i].ID
}

func _VertexNodes(set _PointSet, mapping parser.IDMapping) Dict[int64, int32] {
	vertices := NewDict[int64, int32](set.attached.Length())
	for i, p := range set.attached {
		vertices[_VertexID(set, i, mapping)] = p.Node
	}
	return vertices
}

// Joins the table with the points, points without distance keep an empty distance.
func _JoinDistances(set _PointSet, mapping parser.IDMapping, table *buffered.DistanceTable) List[parser.DistanceRow] {
	rows := NewList[parser.DistanceRow](set.attached.Length())
	for i, p := range set.attached {
		row := parser.DistanceRow{
			ID:     p.ID,
			Vertex: _VertexID(set, i, mapping),
		}
		if dist, ok := table.Get(p.Node); ok {
			row.Distance = &dist
		}
		rows.Add(row)
	}
	return rows
}

// Key of the settings a checkpoint depends on.
func (self *RunManager) _RunKey() string {
	routing := self.config.Routing
	routing.Workers = 0
	data, _ := yaml.Marshal(struct {
		Network    NetworkOptions `yaml:"network"`
		Repair     RepairOptions  `yaml:"repair"`
		Points     PointOptions   `yaml:"points"`
		Facilities PointOptions   `yaml:"facilities"`
		Anchors    int            `yaml:"anchors"`
		Routing    RoutingOptions `yaml:"routing"`
	}{
		Network:    self.config.Network,
		Repair:     self.config.Repair,
		Points:     self.config.Points,
		Facilities: self.config.Facilities,
		Anchors:    self.config.Anchors,
		Routing:    routing,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
