package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/endorses/callflow/internal/pkg/cmdutil"
	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/endorses/callflow/internal/pkg/output"
	"github.com/endorses/callflow/internal/pkg/replay"
	"github.com/endorses/callflow/internal/pkg/voipcalls"
	"github.com/spf13/cobra"
)

var (
	readFile     string
	outputFormat string
	sipAll       bool
	callSel      string
	sipPorts     []int
	mgcpPorts    []int
	noRTP        bool
)

// FlowCmd groups the commands that replay a capture through the call
// correlator.
var FlowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Correlate VoIP calls in a capture file",
	Long: `Replay a pcap or pcapng file through the VoIP call correlator.

Subcommands:
  calls  - List the calls found in the capture
  graph  - Print the frame ordered call flow
  export - Write the frames of selected calls to a new pcap

Examples:
  callflow flow calls -r call.pcap
  callflow flow calls -r call.pcap --output json
  callflow flow graph -r call.pcap --calls 0,2-3`,
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List the calls found in a capture",
	RunE:  runCalls,
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the call flow of a capture",
	RunE:  runGraph,
}

func init() {
	FlowCmd.PersistentFlags().StringVarP(&readFile, "read", "r", "", "capture file to replay (pcap or pcapng)")
	FlowCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	FlowCmd.PersistentFlags().BoolVar(&sipAll, "sip-all", false, "let any SIP request start a call, not only INVITE")
	FlowCmd.PersistentFlags().IntSliceVar(&sipPorts, "sip-ports", nil, "UDP ports decoded as SIP (default 5060,5061)")
	FlowCmd.PersistentFlags().IntSliceVar(&mgcpPorts, "mgcp-ports", nil, "UDP ports decoded as MGCP (default 2427,2727)")
	FlowCmd.PersistentFlags().BoolVar(&noRTP, "no-rtp", false, "skip media decoding")
	_ = FlowCmd.MarkPersistentFlagRequired("read")

	graphCmd.Flags().StringVar(&callSel, "calls", "", "only show these calls, e.g. 0,2,5-7")

	FlowCmd.AddCommand(callsCmd)
	FlowCmd.AddCommand(graphCmd)
}

// pass is the result of one replay of the capture.
type pass struct {
	sess   *voipcalls.Session
	replay replay.Stats
}

func runPass(ctx context.Context) (*pass, error) {
	vcfg := voipcalls.GetConfig()
	vcfg.SIPFlowShowAll = cmdutil.GetBoolConfig("voipcalls.sip_flow_show_all", sipAll)

	rcfg := replay.GetConfig()
	rcfg.SIPPorts = cmdutil.GetIntSliceConfig("replay.sip_ports", sipPorts)
	rcfg.MGCPPorts = cmdutil.GetIntSliceConfig("replay.mgcp_ports", mgcpPorts)
	if noRTP {
		rcfg.RTP = false
	}

	sess := voipcalls.NewSession(vcfg, voipcalls.WithRedraw(func(f voipcalls.RedrawFlag) {
		logger.Debug("call flow updated", "protocols", f.String())
	}))
	sess.Reset()

	stats, err := replay.File(ctx, readFile, sess, rcfg)
	if err != nil {
		if errors.Is(err, replay.ErrUnsupportedLinkType) {
			return nil, fmt.Errorf("cannot replay %s: %w", readFile, err)
		}
		return nil, fmt.Errorf("replay of %s failed: %w", readFile, err)
	}
	sess.EndPass()

	s := sess.Stats()
	logger.Info("replay complete",
		"file", readFile,
		"pass_id", sess.PassID(),
		"frames", stats.Frames,
		"calls", s.Calls,
		"completed", s.Completed,
		"rejected", s.Rejected)
	return &pass{sess: sess, replay: stats}, nil
}

func runCalls(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	p, err := runPass(cmd.Context())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), format, newCallsReport(p), renderCalls)
}

func runGraph(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	nums, err := cmdutil.ParseCallNums(callSel)
	if err != nil {
		return err
	}
	p, err := runPass(cmd.Context())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), format, newGraphReport(p, nums), renderGraph)
}
