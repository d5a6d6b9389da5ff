package flow

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/endorses/callflow/internal/pkg/output"
	"github.com/endorses/callflow/internal/pkg/replay"
	"github.com/endorses/callflow/internal/pkg/voipcalls"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type callRow struct {
	Call           int    `json:"call" yaml:"call"`
	Protocol       string `json:"protocol" yaml:"protocol"`
	State          string `json:"state" yaml:"state"`
	InitialSpeaker string `json:"initial_speaker" yaml:"initial_speaker"`
	From           string `json:"from" yaml:"from"`
	To             string `json:"to" yaml:"to"`
	StartFrame     uint32 `json:"start_frame" yaml:"start_frame"`
	StopFrame      uint32 `json:"stop_frame" yaml:"stop_frame"`
	Duration       string `json:"duration" yaml:"duration"`
	Packets        int    `json:"packets" yaml:"packets"`
	Comment        string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

type callsReport struct {
	PassID string          `json:"pass_id" yaml:"pass_id"`
	Stats  voipcalls.Stats `json:"stats" yaml:"stats"`
	Replay replay.Stats    `json:"replay" yaml:"replay"`
	Calls  []callRow       `json:"calls" yaml:"calls"`
}

func newCallsReport(p *pass) *callsReport {
	r := &callsReport{
		PassID: p.sess.PassID(),
		Stats:  p.sess.Stats(),
		Replay: p.replay,
		Calls:  make([]callRow, 0, len(p.sess.Calls())),
	}
	for _, c := range p.sess.Calls() {
		r.Calls = append(r.Calls, callRow{
			Call:           c.CallNum,
			Protocol:       c.Protocol.String(),
			State:          c.State.String(),
			InitialSpeaker: c.InitialSpeaker,
			From:           c.FromIdentity,
			To:             c.ToIdentity,
			StartFrame:     c.StartFrame,
			StopFrame:      c.StopFrame,
			Duration:       formatDuration(c.Duration()),
			Packets:        c.Packets,
			Comment:        c.Comment,
		})
	}
	return r
}

type graphRow struct {
	Frame    uint32 `json:"frame" yaml:"frame"`
	Time     string `json:"time" yaml:"time"`
	Call     int    `json:"call" yaml:"call"`
	Src      string `json:"src" yaml:"src"`
	Dst      string `json:"dst" yaml:"dst"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Label    string `json:"label" yaml:"label"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Bearer   bool   `json:"bearer,omitempty" yaml:"bearer,omitempty"`
}

type graphReport struct {
	PassID string     `json:"pass_id" yaml:"pass_id"`
	Calls  []int      `json:"calls,omitempty" yaml:"calls,omitempty"`
	Items  []graphRow `json:"items" yaml:"items"`
}

func newGraphReport(p *pass, callNums []int) *graphReport {
	items := p.sess.Graph().ItemsForCalls(callNums)
	r := &graphReport{
		PassID: p.sess.PassID(),
		Calls:  callNums,
		Items:  make([]graphRow, 0, len(items)),
	}
	for _, it := range items {
		r.Items = append(r.Items, graphRow{
			Frame:    it.Frame,
			Time:     it.TimeStr,
			Call:     it.CallNum,
			Src:      it.Src.String(),
			Dst:      it.Dst.String(),
			Protocol: it.Protocol,
			Label:    it.Label,
			Comment:  it.Comment,
			Bearer:   it.LineWeight == voipcalls.LineBearer,
		})
	}
	return r
}

func writeReport[T any](w io.Writer, format output.Format, report T, render func(T) string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case output.FormatJSON:
		data, err = output.MarshalJSON(report)
		if err == nil {
			data = append(data, '\n')
		}
	case output.FormatYAML:
		data, err = output.MarshalYAML(report)
	default:
		data = []byte(render(report) + "\n")
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s report: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderCalls(r *callsReport) string {
	t := newTable("#", "Protocol", "State", "From", "To", "Frames", "Duration", "Packets", "Comment")
	for _, c := range r.Calls {
		t.Row(
			strconv.Itoa(c.Call),
			c.Protocol,
			c.State,
			c.From,
			c.To,
			fmt.Sprintf("%d-%d", c.StartFrame, c.StopFrame),
			c.Duration,
			strconv.Itoa(c.Packets),
			c.Comment,
		)
	}

	footer := fmt.Sprintf("%d calls, %d completed, %d rejected, %d packets",
		r.Stats.Calls, r.Stats.Completed, r.Stats.Rejected, r.Stats.Packets)
	return t.Render() + "\n" + footerStyle.Render(footer)
}

func renderGraph(r *graphReport) string {
	t := newTable("Frame", "Time", "#", "Source", "", "Destination", "Protocol", "Label", "Comment")
	for _, it := range r.Items {
		arrow := "->"
		if it.Bearer {
			arrow = "=>"
		}
		t.Row(
			strconv.FormatUint(uint64(it.Frame), 10),
			it.Time,
			strconv.Itoa(it.Call),
			it.Src,
			arrow,
			it.Dst,
			it.Protocol,
			it.Label,
			it.Comment,
		)
	}
	return t.Render()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Millisecond).String()
}
