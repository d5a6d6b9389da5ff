package flow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/endorses/callflow/internal/pkg/cmdutil"
	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/endorses/callflow/internal/pkg/pcapwriter"
	"github.com/endorses/callflow/internal/pkg/replay"
	"github.com/spf13/cobra"
)

var writeFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the frames of selected calls to a new pcap",
	Long: `Replay a capture, then copy every frame drawn in the flow of the
selected calls into a new pcap file. Media legs contribute their first packet.

Example:
  callflow flow export -r trunk.pcap --calls 3 -w call3.pcap`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&callSel, "calls", "", "calls to export, e.g. 0,2,5-7 (default all)")
	exportCmd.Flags().StringVarP(&writeFile, "write", "w", "", "output pcap file")
	_ = exportCmd.MarkFlagRequired("write")

	FlowCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	nums, err := cmdutil.ParseCallNums(callSel)
	if err != nil {
		return err
	}
	p, err := runPass(cmd.Context())
	if err != nil {
		return err
	}

	frames := make(map[uint32]struct{})
	for _, it := range p.sess.Graph().ItemsForCalls(nums) {
		frames[it.Frame] = struct{}{}
	}

	n, err := exportFrames(cmd.Context(), readFile, writeFile, frames)
	if err != nil {
		return err
	}
	logger.Info("exported call frames", "file", writeFile, "frames", n)
	cmd.Printf("wrote %d frames to %s\n", n, writeFile)
	return nil
}

// exportFrames copies the frames numbered in want from src to dst, keeping
// the capture's link type and timestamps.
func exportFrames(ctx context.Context, src, dst string, want map[uint32]struct{}) (int, error) {
	rd, err := replay.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = rd.Close()
	}()

	cfg := pcapwriter.DefaultConfig()
	cfg.FilePath = dst
	cfg.LinkType = rd.LinkType()
	w, err := pcapwriter.New(cfg)
	if err != nil {
		return 0, err
	}

	var frame uint32
	for len(want) > 0 {
		pkt, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = w.Close()
			return 0, fmt.Errorf("failed to read %s: %w", src, err)
		}
		frame++
		if _, ok := want[frame]; !ok {
			continue
		}
		delete(want, frame)
		if err := w.WritePacket(ctx, pkt.Metadata().CaptureInfo, pkt.Data()); err != nil {
			_ = w.Close()
			return 0, err
		}
	}

	if err := w.Close(); err != nil {
		return 0, err
	}
	written, _ := w.Stats()
	return int(written), nil
}
