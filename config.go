package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ttpr0/go-accessibility/attr"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"github.com/ttpr0/go-accessibility/comps"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file", "file", file)
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

type Config struct {
	Network    NetworkOptions    `yaml:"network"`
	Repair     RepairOptions     `yaml:"repair"`
	Points     PointOptions      `yaml:"points"`
	Facilities PointOptions      `yaml:"facilities"`
	Anchors    int               `yaml:"anchors"`
	Routing    RoutingOptions    `yaml:"routing"`
	Checkpoint CheckpointOptions `yaml:"checkpoint"`
	Output     string            `yaml:"output"`
	// compare the distances with an exact full network search
	Verify   bool          `yaml:"verify"`
	Status   StatusOptions `yaml:"status"`
	LogLevel string        `yaml:"log-level"`
}

type NetworkOptions struct {
	Nodes string `yaml:"nodes"`
	Edges string `yaml:"edges"`
	OSM   string `yaml:"osm"`
	// prefix of the stored network files
	Graph string `yaml:"graph"`
	// rebuild the network even if it is stored already
	Build bool `yaml:"build"`
}

type RepairOptions struct {
	Mode           RepairMode `yaml:"mode"`
	ConnectorSpeed float64    `yaml:"connector-speed"`
	MaxPasses      int        `yaml:"max-passes"`
}

type PointOptions struct {
	File string `yaml:"file"`
	// number of network nodes every point is linked to
	K         int     `yaml:"k"`
	LinkSpeed float64 `yaml:"link-speed"`
}

type RoutingOptions struct {
	Metric    comps.MetricType `yaml:"metric"`
	MinBuffer float64          `yaml:"min-buffer"`
	MaxBuffer float64          `yaml:"max-buffer"`
	// no cutoff if absent
	Cutoff *float64 `yaml:"cutoff"`
	// number of cpus if zero
	Workers         int                     `yaml:"workers"`
	Policy          buffered.SubgraphPolicy `yaml:"policy"`
	DropUnvalidated bool                    `yaml:"drop-unvalidated"`
	QueryTimeout    time.Duration           `yaml:"query-timeout"`
}

type CheckpointOptions struct {
	File  string `yaml:"file"`
	Every int    `yaml:"every"`
}

type StatusOptions struct {
	Address string `yaml:"address"`
}

// Config holding the default of every optional field.
//
// Decoding over it keeps the defaults of absent keys and explicit zeros of present ones.
func DefaultConfig() Config {
	return Config{
		Network: NetworkOptions{Graph: "graphs/network"},
		Repair: RepairOptions{
			Mode:           REPAIR_CONNECT,
			ConnectorSpeed: attr.CONNECTOR_SPEED,
			MaxPasses:      5,
		},
		Points:     PointOptions{K: 2, LinkSpeed: attr.CONNECTOR_SPEED},
		Facilities: PointOptions{K: 1, LinkSpeed: attr.CONNECTOR_SPEED},
		Anchors:    3,
		Routing: RoutingOptions{
			Metric:    comps.LENGTH,
			MinBuffer: 5000,
			MaxBuffer: 1000000,
			Policy:    buffered.INDUCED,
		},
		Checkpoint: CheckpointOptions{Every: 1000},
		Output:     "distances.csv",
		LogLevel:   "info",
	}
}

func (self *Config) validate() error {
	net := self.Network
	if net.OSM == "" && (net.Nodes == "" || net.Edges == "") && (net.Build || !FileExists(net.Graph+"-nodes")) {
		return errors.New("config: network needs an osm file, node and edge tables or a stored graph")
	}
	if net.Graph == "" {
		return errors.New("config: network graph prefix must not be empty")
	}
	if self.Points.File == "" || self.Facilities.File == "" {
		return errors.New("config: points and facilities files are required")
	}
	if self.Output == "" {
		return errors.New("config: output file is required")
	}
	if self.Points.K < 1 || self.Facilities.K < 1 || self.Anchors < 1 {
		return errors.New("config: link and anchor counts must be positive")
	}
	if self.Repair.MaxPasses < 0 {
		return errors.New("config: repair passes must not be negative")
	}
	if self.Repair.ConnectorSpeed <= 0 || self.Points.LinkSpeed <= 0 || self.Facilities.LinkSpeed <= 0 {
		return errors.New("config: speeds must be positive")
	}
	if self.Checkpoint.Every < 1 {
		return errors.New("config: checkpoint interval must be positive")
	}
	if _, err := ParseLevel(self.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := self.RoutingOptions().Validate(); err != nil {
		return err
	}
	return nil
}

// Engine options of the routing section.
func (self *Config) RoutingOptions() buffered.Options {
	opts := buffered.DefaultOptions()
	opts.MinRadius = self.Routing.MinBuffer
	opts.MaxRadius = self.Routing.MaxBuffer
	if self.Routing.Cutoff != nil {
		opts.Cutoff = Some(*self.Routing.Cutoff)
	}
	if self.Routing.Workers != 0 {
		opts.Workers = self.Routing.Workers
	}
	opts.Policy = self.Routing.Policy
	opts.DropUnvalidated = self.Routing.DropUnvalidated
	opts.QueryTimeout = self.Routing.QueryTimeout
	return opts
}

//**********************************************************
// enums
//**********************************************************

type RepairMode byte

const (
	// connect fragments to the largest component
	REPAIR_CONNECT RepairMode = 0
	// remove fragments
	REPAIR_REMOVE RepairMode = 1
)

func (self RepairMode) String() string {
	switch self {
	case REPAIR_CONNECT:
		return "connect"
	case REPAIR_REMOVE:
		return "remove"
	default:
		panic("unknown repair mode")
	}
}
func (self RepairMode) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *RepairMode) UnmarshalYAML(value *yaml.Node) error {
	mode, err := RepairModeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = mode
	return nil
}

func RepairModeFromString(s string) (RepairMode, error) {
	switch s {
	case "connect":
		return REPAIR_CONNECT, nil
	case "remove":
		return REPAIR_REMOVE, nil
	default:
		return REPAIR_CONNECT, errors.New("unknown repair mode")
	}
}
