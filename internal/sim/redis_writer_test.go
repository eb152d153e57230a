package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/telemetry"
)

// fakePipe records commands; methods not overridden are never called.
type fakePipe struct {
	redis.Pipeliner
	cmds    []string
	execErr error
}

func (p *fakePipe) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	p.cmds = append(p.cmds, "HSET "+key)
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	p.cmds = append(p.cmds, "EXPIRE "+key+" "+ttl.String())
	return redis.NewBoolCmd(ctx)
}

func (p *fakePipe) GeoAdd(ctx context.Context, key string, locs ...*redis.GeoLocation) *redis.IntCmd {
	for _, l := range locs {
		p.cmds = append(p.cmds, "GEOADD "+key+" "+l.Name)
	}
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) Publish(ctx context.Context, channel string, msg interface{}) *redis.IntCmd {
	p.cmds = append(p.cmds, "PUBLISH "+channel)
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	p.cmds = append(p.cmds, "SET "+key)
	return redis.NewStatusCmd(ctx)
}

func (p *fakePipe) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	p.cmds = append(p.cmds, "DEL "+strings.Join(keys, " "))
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	p.cmds = append(p.cmds, fmt.Sprintf("RPUSH %s %d", key, len(values)))
	return redis.NewIntCmd(ctx)
}

func (p *fakePipe) Exec(ctx context.Context) ([]redis.Cmder, error) {
	return nil, p.execErr
}

type fakeRedis struct {
	pipe   *fakePipe
	tx     int
	closed bool
}

func (f *fakeRedis) Pipeline() redis.Pipeliner { return f.pipe }
func (f *fakeRedis) TxPipeline() redis.Pipeliner {
	f.tx++
	return f.pipe
}
func (f *fakeRedis) Close() error             { f.closed = true; return nil }

func hasCmd(cmds []string, want string) bool {
	for _, c := range cmds {
		if c == want {
			return true
		}
	}
	return false
}

func TestRedisWriterBatch(t *testing.T) {
	fr := &fakeRedis{pipe: &fakePipe{}}
	w := newRedisWriter(fr, "c1", config.RedisConfig{})
	rows := []telemetry.TelemetryRow{
		{ClusterID: "c1", DroneID: "drone-1", Lat: 19.13, Lon: 72.91},
		{ClusterID: "c1", DroneID: "drone-2", Lat: 19.14, Lon: 72.92},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, want := range []string{
		"HSET drone:drone-1:state",
		"EXPIRE drone:drone-1:state 30s",
		"GEOADD fleet:c1:geo drone-2",
		"PUBLISH fleet:c1:telemetry",
		"EXPIRE fleet:c1:geo 30s",
	} {
		if !hasCmd(fr.pipe.cmds, want) {
			t.Errorf("missing %q in %v", want, fr.pipe.cmds)
		}
	}
}

func TestRedisWriterAlertsAndState(t *testing.T) {
	fr := &fakeRedis{pipe: &fakePipe{}}
	w := newRedisWriter(fr, "c1", config.RedisConfig{StateTTL: time.Minute, Channel: "ops"})
	a := alert.Alert{ID: "abc", Title: "Weak Signal"}
	if err := w.WriteAlerts([]alert.Alert{a}); err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if err := w.WriteState(telemetry.FleetStateRow{ClusterID: "c1", Tick: 3}); err != nil {
		t.Fatalf("state: %v", err)
	}
	for _, want := range []string{"DEL fleet:c1:alerts", "RPUSH fleet:c1:alerts 1", "EXPIRE fleet:c1:alerts 1m0s", "PUBLISH ops:alerts", "HSET fleet:c1:state", "EXPIRE fleet:c1:state 1m0s", "PUBLISH ops:state"} {
		if !hasCmd(fr.pipe.cmds, want) {
			t.Errorf("missing %q in %v", want, fr.pipe.cmds)
		}
	}
	if err := w.Close(); err != nil || !fr.closed {
		t.Errorf("close not forwarded")
	}
}

func TestRedisWriterAlertsReplaceSet(t *testing.T) {
	fr := &fakeRedis{pipe: &fakePipe{}}
	w := newRedisWriter(fr, "c1", config.RedisConfig{})
	if err := w.WriteAlerts([]alert.Alert{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if err := w.WriteAlerts(nil); err != nil {
		t.Fatalf("empty alerts: %v", err)
	}
	if fr.tx != 2 {
		t.Fatalf("expected each set to be replaced in a transaction, got %d", fr.tx)
	}
	want := []string{
		"DEL fleet:c1:alerts", "RPUSH fleet:c1:alerts 2", "EXPIRE fleet:c1:alerts 30s",
		"PUBLISH fleet:c1:alerts", "PUBLISH fleet:c1:alerts",
		"DEL fleet:c1:alerts",
	}
	if strings.Join(fr.pipe.cmds, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected commands:\n got %v\nwant %v", fr.pipe.cmds, want)
	}
}

func TestRedisWriterSingleAlertAppends(t *testing.T) {
	fr := &fakeRedis{pipe: &fakePipe{}}
	w := newRedisWriter(fr, "c1", config.RedisConfig{})
	if err := w.WriteAlert(alert.Alert{ID: "a"}); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if fr.tx != 0 || hasCmd(fr.pipe.cmds, "DEL fleet:c1:alerts") {
		t.Fatalf("single alert must not clear the set: %v", fr.pipe.cmds)
	}
	if !hasCmd(fr.pipe.cmds, "RPUSH fleet:c1:alerts 1") {
		t.Fatalf("missing RPUSH in %v", fr.pipe.cmds)
	}
}

func TestRedisWriterExecError(t *testing.T) {
	fr := &fakeRedis{pipe: &fakePipe{execErr: errors.New("connection reset")}}
	w := newRedisWriter(fr, "c1", config.RedisConfig{})
	err := w.Write(telemetry.TelemetryRow{DroneID: "drone-1"})
	if err == nil || !strings.Contains(err.Error(), "redis pipeline failed") {
		t.Fatalf("expected wrapped pipeline error, got %v", err)
	}
}

func TestNewRedisWriterUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewRedisWriter(ctx, "c1", config.RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected connection error")
	}
}
