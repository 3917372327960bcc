// Package data establishes the document store and revocation cache connections.
//
// Bootstrap runs once at process start. A failed MongoDB connection is
// non-fatal: the service starts anyway and the request gate rejects traffic
// until connectivity returns. A failed Redis connection only disables
// logout-time revocation.
package data

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/AllanSJoseph/AlgoHub/config"
	"github.com/AllanSJoseph/AlgoHub/data/repository"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

const (
	connectTimeout   = 10 * time.Second
	readinessTimeout = 2 * time.Second
)

// Data encapsulates the data layer dependencies.
type Data struct {
	client *mongo.Client
	db     *mongo.Database
	redis  *redis.Client

	UserRepo  repository.UserRepository
	Blacklist repository.TokenBlacklist
}

// New connects to the document store (with the single local fallback retry on
// name-resolution failure) and to the revocation cache. The returned Data is
// usable even when the returned error is non-nil: the caller keeps serving and
// readiness checks report the outage.
func New(ctx context.Context, cfg *config.Data, log *logger.Logger) (*Data, error) {
	d := &Data{}

	connErr := d.connectMongo(ctx, cfg.MongoDB, log)

	d.connectRedis(ctx, cfg.Redis, log)
	d.Blacklist = repository.NewTokenBlacklist(d.redis, log)

	if d.db != nil {
		d.UserRepo = repository.NewUserRepository(d.db, log)
	}

	return d, connErr
}

// connectMongo connects to the configured URI, falling back to the fixed local
// address once when the configured host cannot be resolved.
func (d *Data) connectMongo(ctx context.Context, cfg *config.MongoDB, log *logger.Logger) error {
	client, err := dialMongo(ctx, cfg.URI)
	if err != nil {
		if !isLocalURI(cfg.URI) && isNameResolutionError(err) {
			log.Warn(ctx, "document store unreachable, retrying local fallback",
				"uri", cfg.URI, "error", err)
			return d.connectLocalFallback(ctx, cfg, log)
		}
		// Keep the client: the driver reconnects once the store returns and
		// the per-request readiness check observes the recovery.
		log.Error(ctx, "document store connection failed", "uri", cfg.URI, "error", err)
		d.useClient(client, cfg.Database)
		return fmt.Errorf("document store connection failed: %w", err)
	}

	log.Info(ctx, "connected to document store", "target", targetLabel(cfg.URI))
	d.useClient(client, cfg.Database)
	return nil
}

func (d *Data) connectLocalFallback(ctx context.Context, cfg *config.MongoDB, log *logger.Logger) error {
	client, err := dialMongo(ctx, config.LocalMongoURI)
	if err != nil {
		log.Error(ctx, "local fallback connection failed", "error", err)
		d.useClient(client, cfg.Database)
		return fmt.Errorf("local fallback connection failed: %w", err)
	}

	log.Info(ctx, "connected to document store", "target", "local")
	d.useClient(client, cfg.Database)
	return nil
}

func (d *Data) useClient(client *mongo.Client, database string) {
	if client == nil {
		return
	}
	d.client = client
	d.db = client.Database(database)
}

// dialMongo builds a client for the URI and verifies connectivity with a ping.
// The client is returned even when the ping fails.
func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		return client, err
	}

	return client, nil
}

// connectRedis attempts the revocation cache connection. Failure is degraded
// service, never fatal: the client is kept so it can recover lazily.
func (d *Data) connectRedis(ctx context.Context, cfg *config.Redis, log *logger.Logger) {
	if cfg == nil || cfg.Addr == "" {
		log.Warn(ctx, "revocation cache not configured, tokens stay valid until natural expiry")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "revocation cache unavailable, serving without token blacklist", "error", err)
	} else {
		log.Info(ctx, "connected to revocation cache", "addr", cfg.Addr)
	}

	d.redis = client
}

// Ready reports whether the document store is reachable right now. Evaluated
// per request so recovery is observed immediately.
func (d *Data) Ready(ctx context.Context) bool {
	if d.client == nil {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	return d.client.Ping(pingCtx, readpref.Primary()) == nil
}

// Close closes the store connections.
func (d *Data) Close() error {
	var errs []error

	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// isNameResolutionError reports whether the connection failure was a DNS
// name-resolution failure, checked structurally rather than by error text.
//
// For mongodb+srv URIs the DNS error surfaces directly from URI parsing. For
// plain URIs the ping fails with a ServerSelectionError whose unwrap chain
// ends at the selection timeout; the dial errors live per server in the
// topology description, so those are walked too.
func isNameResolutionError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var selErr topology.ServerSelectionError
	if errors.As(err, &selErr) {
		for _, srv := range selErr.Desc.Servers {
			if errors.As(srv.LastError, &dnsErr) {
				return true
			}
		}
	}

	return false
}

// isLocalURI reports whether the URI points at a loopback host.
func isLocalURI(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// targetLabel classifies the physical target for operational logs.
func targetLabel(uri string) string {
	if isLocalURI(uri) {
		return "local"
	}
	return "remote"
}
