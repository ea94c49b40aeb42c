package pingsweep

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mapsutil "github.com/projectdiscovery/utils/maps"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/projectdiscovery/ping-network/pkg/privilege"
)

// protocolICMP is the IANA protocol number of ICMP for IPv4
const protocolICMP = 1

var echoPayload = []byte("HELLO-R-U-THERE")

// ICMPPinger sends ICMP echo requests through one shared raw socket and
// matches replies by identifier and sequence number.
type ICMPPinger struct {
	conn net.PacketConn
	id   int
	seq  atomic.Uint32

	// sequence number -> pending ping
	pending *mapsutil.SyncLockMap[int, *pendingPing]

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// pendingPing tracks a sent ping waiting for reply
type pendingPing struct {
	Addr  netip.Addr
	Start time.Time
	reply chan Result
}

// NewICMPPinger opens the shared raw socket. It requires an elevated state
// and reports privilege.ErrPermissionDenied when the OS refuses the socket.
func NewICMPPinger(state privilege.State) (*ICMPPinger, error) {
	if err := state.Require(); err != nil {
		return nil, err
	}
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: failed to open raw ICMP socket: %v", privilege.ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("failed to create shared ICMP connection: %w", err)
	}
	return newICMPPinger(conn), nil
}

func newICMPPinger(conn net.PacketConn) *ICMPPinger {
	p := &ICMPPinger{
		conn:    conn,
		id:      os.Getpid() & 0xffff,
		pending: mapsutil.NewSyncLockMap[int, *pendingPing](),
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.receiveReplies()
	}()
	return p
}

// Ping sends one echo request to addr and waits for its reply, an ICMP
// error quoting it, or the end of ctx.
func (p *ICMPPinger) Ping(ctx context.Context, addr netip.Addr) Result {
	if !addr.Is4() {
		return Result{Status: ProbeError, Detail: "not an IPv4 address"}
	}

	pending := &pendingPing{Addr: addr, Start: time.Now(), reply: make(chan Result, 1)}
	seq := p.register(pending)
	defer p.pending.Delete(seq)

	if err := sendPing(p.conn, addr, p.id, seq); err != nil {
		return Result{Status: ProbeError, Detail: err.Error()}
	}

	select {
	case result := <-pending.reply:
		return result
	case <-ctx.Done():
		return fromContext(ctx)
	case <-p.done:
		return Result{Status: ProbeError, Detail: "pinger closed"}
	}
}

// Close stops the receiver and releases the socket
func (p *ICMPPinger) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.conn.Close()
		p.wg.Wait()
	})
	return err
}

// register assigns a free 16-bit sequence number to pending
func (p *ICMPPinger) register(pending *pendingPing) int {
	for {
		seq := int(p.seq.Add(1) & 0xffff)
		if p.pending.Has(seq) {
			continue
		}
		_ = p.pending.Set(seq, pending)
		return seq
	}
}

// sendPing sends an ICMP echo request through the shared connection
func sendPing(conn net.PacketConn, addr netip.Addr, id, seq int) error {
	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: echoPayload,
		},
	}

	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		return fmt.Errorf("failed to marshal ICMP message: %w", err)
	}

	dst := &net.IPAddr{IP: net.IP(addr.AsSlice())}
	_, err = conn.WriteTo(msgBytes, dst)
	return err
}

// receiveReplies reads the shared socket until Close
func (p *ICMPPinger) receiveReplies() {
	reply := make([]byte, 1500)
	for {
		select {
		case <-p.done:
			return
		default:
		}

		if err := p.conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
			return
		}
		n, peer, err := p.conn.ReadFrom(reply)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		from := peerAddr(peer)
		seq, result, ok := p.parseReply(reply[:n], from)
		if !ok {
			continue
		}
		pending, exists := p.pending.Get(seq)
		if !exists {
			continue
		}
		// echo replies must come from the probed host; ICMP errors are
		// matched on the destination they quote instead
		if result.Status == Online {
			if from != pending.Addr {
				continue
			}
			result.RTT = time.Since(pending.Start)
		}
		if result.Status != Online && result.quoted != pending.Addr {
			continue
		}

		select {
		case pending.reply <- result.Result:
		default:
		}
	}
}

type parsedReply struct {
	Result
	quoted netip.Addr
}

// parseReply decodes one ICMP message. It returns the sequence number of
// the echo request it answers.
func (p *ICMPPinger) parseReply(b []byte, from netip.Addr) (int, parsedReply, bool) {
	rm, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return 0, parsedReply{}, false
	}

	switch rm.Type {
	case ipv4.ICMPTypeEchoReply:
		echo, ok := rm.Body.(*icmp.Echo)
		if !ok || echo.ID != p.id {
			return 0, parsedReply{}, false
		}
		return echo.Seq, parsedReply{Result: Result{Status: Online}}, true

	case ipv4.ICMPTypeDestinationUnreachable:
		body, ok := rm.Body.(*icmp.DstUnreach)
		if !ok {
			return 0, parsedReply{}, false
		}
		dst, id, seq, ok := quotedEcho(body.Data)
		if !ok || id != p.id {
			return 0, parsedReply{}, false
		}
		return seq, parsedReply{
			Result: Result{Status: Unreachable, Code: rm.Code, Detail: unreachableReason(rm.Code, from)},
			quoted: dst,
		}, true

	case ipv4.ICMPTypeTimeExceeded:
		body, ok := rm.Body.(*icmp.TimeExceeded)
		if !ok {
			return 0, parsedReply{}, false
		}
		dst, id, seq, ok := quotedEcho(body.Data)
		if !ok || id != p.id {
			return 0, parsedReply{}, false
		}
		return seq, parsedReply{
			Result: Result{Status: ProbeError, Code: rm.Code, Detail: fmt.Sprintf("time exceeded (reported by %s)", from)},
			quoted: dst,
		}, true
	}
	return 0, parsedReply{}, false
}

// quotedEcho extracts the destination, identifier and sequence number of
// the echo request quoted by an ICMP error message: the original IPv4
// header followed by at least 8 bytes of its payload.
func quotedEcho(data []byte) (netip.Addr, int, int, bool) {
	h, err := ipv4.ParseHeader(data)
	if err != nil || h.Protocol != protocolICMP || len(data) < h.Len+8 {
		return netip.Addr{}, 0, 0, false
	}
	quoted := data[h.Len:]
	if quoted[0] != byte(ipv4.ICMPTypeEcho) {
		return netip.Addr{}, 0, 0, false
	}
	dst, ok := netip.AddrFromSlice(h.Dst.To4())
	if !ok {
		return netip.Addr{}, 0, 0, false
	}
	id := int(binary.BigEndian.Uint16(quoted[4:6]))
	seq := int(binary.BigEndian.Uint16(quoted[6:8]))
	return dst, id, seq, true
}

func unreachableReason(code int, from netip.Addr) string {
	var reason string
	switch code {
	case 0:
		reason = "destination network unreachable"
	case 1:
		reason = "destination host unreachable"
	case 3:
		reason = "destination port unreachable"
	case 9, 10, 13:
		reason = "communication administratively prohibited"
	default:
		reason = fmt.Sprintf("destination unreachable (code %d)", code)
	}
	if from.IsValid() {
		reason += " (reported by " + from.String() + ")"
	}
	return reason
}

func peerAddr(peer net.Addr) netip.Addr {
	var ip net.IP
	switch a := peer.(type) {
	case *net.IPAddr:
		ip = a.IP
	case *net.UDPAddr:
		ip = a.IP
	default:
		return netip.Addr{}
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr.Unmap()
}
