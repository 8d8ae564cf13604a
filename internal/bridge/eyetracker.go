package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/registry"
)

const maxDatagram = 2048

func init() {
	registry.Register(registry.Player{
		ID:              "human-gaze",
		Title:           "Human (eye tracked)",
		Description:     "Keyboard player with an eye tracker streaming gaze",
		NeedsEyetracker: true,
	})
}

// Eyetracker listens for iViewX-style text datagrams and pushes gaze events.
type Eyetracker struct {
	intake Pusher
	log    *log.Logger
}

// NewEyetracker creates a gaze listener feeding intake.
func NewEyetracker(intake Pusher, logger *log.Logger) *Eyetracker {
	return &Eyetracker{
		intake: intake,
		log:    logger.With("component", "eyetracker"),
	}
}

// Listen receives datagrams on addr until ctx is done. The stream coming
// up and going away is reported as TrackerEvents.
func (e *Eyetracker) Listen(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		e.intake.Push(event.SourceEyetracker, event.TrackerEvent{Connected: false, Reason: err.Error()})
		return fmt.Errorf("bridge: eyetracker listen on %s: %w", addr, err)
	}
	return e.Serve(ctx, pc)
}

// Serve reads datagrams from pc until ctx is done or a read fails.
// pc is closed on return.
func (e *Eyetracker) Serve(ctx context.Context, pc net.PacketConn) error {
	e.log.Info("eye tracker listening", "addr", pc.LocalAddr())
	e.intake.Push(event.SourceEyetracker, event.TrackerEvent{Connected: true})

	stop := context.AfterFunc(ctx, func() { pc.Close() })
	defer stop()
	defer pc.Close()

	buf := make([]byte, maxDatagram)
	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				e.intake.Push(event.SourceEyetracker, event.TrackerEvent{Connected: false, Reason: "stopped"})
				return nil
			}
			e.intake.Push(event.SourceEyetracker, event.TrackerEvent{Connected: false, Reason: err.Error()})
			return fmt.Errorf("bridge: eyetracker read: %w", err)
		}
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				e.intake.Push(event.SourceEyetracker, ParseDatagram(line))
			}
		}
	}
}

// ParseDatagram converts one tracker line into an event.
//
// ET_FIX is a fixation, ET_SAC a saccade and ET_SPL a raw sample. The gaze
// position is taken from the last two numeric fields; all fields are kept
// in the payload.
func ParseDatagram(line string) event.Event {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return event.UnknownEvent{Tag: "empty"}
	}

	var kind event.GazeKind
	switch fields[0] {
	case "ET_FIX":
		kind = event.GazeFixation
	case "ET_SAC":
		kind = event.GazeSaccade
	case "ET_SPL":
		kind = event.GazeSample
	default:
		return event.UnknownEvent{Tag: fields[0], Payload: line}
	}

	var nums []float64
	for _, f := range fields[1:] {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			nums = append(nums, v)
		}
	}
	if len(nums) < 2 {
		return event.UnknownEvent{Tag: fields[0], Payload: line}
	}

	return event.GazeEvent{
		Kind:    kind,
		X:       nums[len(nums)-2],
		Y:       nums[len(nums)-1],
		Payload: map[string]any{"raw": fields},
	}
}
