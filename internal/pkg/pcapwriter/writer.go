// Package pcapwriter writes frames to a pcap file from a buffered write loop.
package pcapwriter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var ErrClosed = errors.New("writer is closed")

type frame struct {
	ci   gopacket.CaptureInfo
	data []byte
}

// Writer appends frames to a pcap file. WritePacket blocks while the buffer
// is full; frames are never dropped.
type Writer struct {
	filePath     string
	file         *os.File
	writer       *pcapgo.Writer
	frames       chan frame
	wg           sync.WaitGroup
	mu           sync.Mutex
	sendMu       sync.RWMutex
	closed       atomic.Bool
	syncTicker   *time.Ticker
	packetCount  atomic.Int64
	bytesWritten atomic.Int64
	writeErr     error
}

type Config struct {
	FilePath     string
	LinkType     layers.LinkType
	SnapLen      uint32
	BufferSize   int
	SyncInterval time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		LinkType:     layers.LinkTypeEthernet,
		SnapLen:      65536,
		BufferSize:   1000,
		SyncInterval: 5 * time.Second,
	}
}

// New creates the file and writes the pcap header.
func New(config *Config) (*Writer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	snap := config.SnapLen
	if snap == 0 {
		snap = 65536
	}
	buffer := config.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	interval := config.SyncInterval
	if interval <= 0 {
		interval = time.Second
	}

	file, err := os.Create(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create PCAP file: %w", err)
	}
	pw := pcapgo.NewWriter(file)
	if err := pw.WriteFileHeader(snap, config.LinkType); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write PCAP header: %w", err)
	}

	w := &Writer{
		filePath:   config.FilePath,
		file:       file,
		writer:     pw,
		frames:     make(chan frame, buffer),
		syncTicker: time.NewTicker(interval),
	}
	w.wg.Add(1)
	go w.writeLoop()

	logger.Debug("created PCAP writer", "file", config.FilePath, "link_type", config.LinkType)
	return w, nil
}

// WritePacket queues one frame. It returns early when ctx is cancelled.
func (w *Writer) WritePacket(ctx context.Context, ci gopacket.CaptureInfo, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	w.sendMu.RLock()
	defer w.sendMu.RUnlock()
	if w.closed.Load() {
		return ErrClosed
	}
	select {
	case w.frames <- frame{ci: ci, data: buf}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) writeLoop() {
	defer w.wg.Done()
	for {
		select {
		case f, ok := <-w.frames:
			if !ok {
				return
			}
			w.write(f)
		case <-w.syncTicker.C:
			w.mu.Lock()
			if w.file != nil {
				_ = w.file.Sync()
			}
			w.mu.Unlock()
		}
	}
}

func (w *Writer) write(f frame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.WritePacket(f.ci, f.data); err != nil {
		if w.writeErr == nil {
			w.writeErr = fmt.Errorf("failed to write packet: %w", err)
		}
		logger.Error("failed to write packet", "error", err, "file", w.filePath)
		return
	}
	w.packetCount.Add(1)
	w.bytesWritten.Add(int64(len(f.data)))
}

// Close flushes queued frames and closes the file. It returns the first
// write error, if any.
func (w *Writer) Close() error {
	w.sendMu.Lock()
	if w.closed.Swap(true) {
		w.sendMu.Unlock()
		return nil
	}
	close(w.frames)
	w.sendMu.Unlock()

	w.wg.Wait()
	w.syncTicker.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			logger.Warn("failed to sync PCAP file", "error", err, "file", w.filePath)
		}
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close PCAP file: %w", err)
		}
		w.file = nil
	}

	logger.Debug("closed PCAP writer",
		"file", w.filePath,
		"packets", w.packetCount.Load(),
		"bytes", w.bytesWritten.Load())
	return w.writeErr
}

// Stats returns current writer statistics.
func (w *Writer) Stats() (packetCount, bytesWritten int64) {
	return w.packetCount.Load(), w.bytesWritten.Load()
}

func (w *Writer) FilePath() string {
	return w.filePath
}
