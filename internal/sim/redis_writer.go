package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/telemetry"
)

const (
	defaultRedisStateTTL = 30 * time.Second
	redisWriteTimeout    = 2 * time.Second
)

// redisClient is the subset of *redis.Client used by RedisWriter.
type redisClient interface {
	Pipeline() redis.Pipeliner
	TxPipeline() redis.Pipeliner
	Close() error
}

// RedisWriter mirrors live fleet state into Redis: a hash per drone with a
// TTL, a geo set per cluster, a list holding the current alert set, and
// pub/sub channels for telemetry, alerts and fleet state. Keys expire so
// nothing outlives the session.
type RedisWriter struct {
	client    redisClient
	clusterID string
	ttl       time.Duration
	channel   string
}

// NewRedisWriter connects to Redis and verifies the connection.
func NewRedisWriter(ctx context.Context, clusterID string, cfg config.RedisConfig) (*RedisWriter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return newRedisWriter(client, clusterID, cfg), nil
}

func newRedisWriter(client redisClient, clusterID string, cfg config.RedisConfig) *RedisWriter {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = defaultRedisStateTTL
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "fleet:" + clusterID
	}
	return &RedisWriter{client: client, clusterID: clusterID, ttl: ttl, channel: channel}
}

func droneStateKey(droneID string) string { return fmt.Sprintf("drone:%s:state", droneID) }

func (w *RedisWriter) geoKey() string { return fmt.Sprintf("fleet:%s:geo", w.clusterID) }

func (w *RedisWriter) fleetStateKey() string { return fmt.Sprintf("fleet:%s:state", w.clusterID) }

func (w *RedisWriter) alertsKey() string { return fmt.Sprintf("fleet:%s:alerts", w.clusterID) }

// Write publishes a single telemetry row.
func (w *RedisWriter) Write(row telemetry.TelemetryRow) error {
	return w.WriteBatch([]telemetry.TelemetryRow{row})
}

// WriteBatch updates drone state hashes and positions in one pipeline.
func (w *RedisWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	pipe := w.client.Pipeline()
	for _, r := range rows {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal telemetry: %w", err)
		}
		key := droneStateKey(r.DroneID)
		pipe.HSet(ctx, key, map[string]interface{}{
			"cluster_id":      r.ClusterID,
			"drone_id":        r.DroneID,
			"name":            r.Name,
			"lat":             r.Lat,
			"lon":             r.Lon,
			"alt":             r.Alt,
			"battery":         r.Battery,
			"signal_strength": r.SignalStrength,
			"status":          string(r.Status),
			"tick":            r.Tick,
			"timestamp":       r.Timestamp.Unix(),
		})
		pipe.Expire(ctx, key, w.ttl)
		pipe.GeoAdd(ctx, w.geoKey(), &redis.GeoLocation{
			Name:      r.DroneID,
			Longitude: r.Lon,
			Latitude:  r.Lat,
		})
		pipe.Publish(ctx, w.channel+":telemetry", payload)
	}
	pipe.Expire(ctx, w.geoKey(), w.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// WriteAlert appends a single alert to the current set and publishes it.
func (w *RedisWriter) WriteAlert(a alert.Alert) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	pipe := w.client.Pipeline()
	pipe.RPush(ctx, w.alertsKey(), payload)
	pipe.Expire(ctx, w.alertsKey(), w.ttl)
	pipe.Publish(ctx, w.channel+":alerts", payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// WriteAlerts replaces the current alert set in one transaction, so readers
// never see alerts that the latest derivation dropped.
func (w *RedisWriter) WriteAlerts(alerts []alert.Alert) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	payloads := make([]interface{}, len(alerts))
	for i, a := range alerts {
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}
		payloads[i] = payload
	}

	pipe := w.client.TxPipeline()
	pipe.Del(ctx, w.alertsKey())
	if len(payloads) > 0 {
		pipe.RPush(ctx, w.alertsKey(), payloads...)
		pipe.Expire(ctx, w.alertsKey(), w.ttl)
	}
	for _, p := range payloads {
		pipe.Publish(ctx, w.channel+":alerts", p)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// WriteState stores and publishes the per-tick fleet summary.
func (w *RedisWriter) WriteState(row telemetry.FleetStateRow) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	pipe := w.client.Pipeline()
	pipe.HSet(ctx, w.fleetStateKey(), map[string]interface{}{
		"tick":      row.Tick,
		"drones":    row.Drones,
		"active":    row.Active,
		"critical":  row.Critical,
		"warning":   row.Warning,
		"info":      row.Info,
		"success":   row.Success,
		"timestamp": row.Timestamp.Unix(),
	})
	pipe.Expire(ctx, w.fleetStateKey(), w.ttl)
	pipe.Publish(ctx, w.channel+":state", payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (w *RedisWriter) Close() error {
	return w.client.Close()
}
