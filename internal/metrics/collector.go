package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/capest-planner/capest/pkg/core"
)

var (
	memberLabels      = []string{"quarter", "member_id", "member"}
	quarterLabels     = []string{"quarter"}
	requirementLabels = []string{"quarter", "initiative_id", "initiative", "role", "requirement"}
)

// CapacityCollector evaluates one quarter at scrape time.
type CapacityCollector struct {
	source    Source
	quarterID string

	memberAvailable  *prometheus.Desc
	memberAllocated  *prometheus.Desc
	memberRemaining  *prometheus.Desc
	memberOver       *prometheus.Desc
	quarterAvailable *prometheus.Desc
	quarterAllocated *prometheus.Desc
	requirementShort *prometheus.Desc
	roleFulfillment  *prometheus.Desc
}

var _ prometheus.Collector = (*CapacityCollector)(nil)

// NewCapacityCollector returns a collector for quarterID. Metric names are
// prefixed with namespace.
func NewCapacityCollector(source Source, quarterID, namespace string) *CapacityCollector {
	desc := func(subsystem, name, help string, labels []string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
	}
	return &CapacityCollector{
		source:    source,
		quarterID: quarterID,

		memberAvailable: desc("member", "available_weeks",
			"Weeks the member can work in the quarter.", memberLabels),
		memberAllocated: desc("member", "allocated_weeks",
			"Weeks allocated to the member across the quarter's initiatives.", memberLabels),
		memberRemaining: desc("member", "remaining_weeks",
			"Available minus allocated weeks; negative when over-allocated.", memberLabels),
		memberOver: desc("member", "over_allocated",
			"1 if the member is allocated beyond availability, else 0.", memberLabels),
		quarterAvailable: desc("quarter", "available_weeks",
			"Total availability of the roster in the quarter.", quarterLabels),
		quarterAllocated: desc("quarter", "allocated_weeks",
			"Total weeks allocated in the quarter.", quarterLabels),
		requirementShort: desc("requirement", "shortfall_weeks",
			"Required effort not yet covered by assignments.", requirementLabels),
		roleFulfillment: desc("role", "fulfillment_percent",
			"Assigned effort as a percentage of required effort, capped at 100.", requirementLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *CapacityCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memberAvailable
	ch <- c.memberAllocated
	ch <- c.memberRemaining
	ch <- c.memberOver
	ch <- c.quarterAvailable
	ch <- c.quarterAllocated
	ch <- c.requirementShort
	ch <- c.roleFulfillment
}

// Collect implements prometheus.Collector.
func (c *CapacityCollector) Collect(ch chan<- prometheus.Metric) {
	quarter, ok := c.source.Quarter(c.quarterID)
	if !ok {
		ch <- prometheus.NewInvalidMetric(c.quarterAvailable, fmt.Errorf("quarter %q is not configured", c.quarterID))
		return
	}
	members := c.source.Members()
	initiatives := c.source.Initiatives()
	summary := core.QuarterCapacitySummary(members, initiatives, quarter)

	gauge := func(desc *prometheus.Desc, v int, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v), labels...)
	}

	for _, mc := range summary.MemberCapacities {
		gauge(c.memberAvailable, mc.Available, quarter.ID, mc.MemberID, mc.MemberName)
		gauge(c.memberAllocated, mc.Allocated, quarter.ID, mc.MemberID, mc.MemberName)
		gauge(c.memberRemaining, mc.Remaining, quarter.ID, mc.MemberID, mc.MemberName)
		over := 0
		if mc.IsOverAllocated {
			over = 1
		}
		gauge(c.memberOver, over, quarter.ID, mc.MemberID, mc.MemberName)
	}
	gauge(c.quarterAvailable, summary.TotalAvailable, quarter.ID)
	gauge(c.quarterAllocated, summary.TotalAllocated, quarter.ID)

	for _, ini := range initiatives {
		if ini.Quarter != quarter.ID {
			continue
		}
		for i, f := range core.Fulfillment(ini, members) {
			labels := []string{quarter.ID, ini.ID, ini.Name, string(f.Role), strconv.Itoa(i)}
			gauge(c.requirementShort, f.Shortfall(), labels...)
			gauge(c.roleFulfillment, f.Percentage, labels...)
		}
	}
}

// Gather registers the collectors on a fresh registry and gathers them.
func Gather(collectors ...prometheus.Collector) ([]*dto.MetricFamily, error) {
	reg := prometheus.NewPedanticRegistry()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}
	return families, nil
}

// WriteText writes families in the Prometheus text exposition format.
func WriteText(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
