package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadWriteClient sends loader reads to a replica and writes to the
// primary. One pool serves both when they address the same server.
type ReadWriteClient struct {
	reads  *pgxpool.Pool
	writes *pgxpool.Pool
}

func NewReadWriteClient(ctx context.Context, read Config, write Config) (*ReadWriteClient, error) {
	writes, err := NewPostgresClient(ctx, write)
	if err != nil {
		return nil, err
	}

	if read.sameServer(write) {
		return &ReadWriteClient{reads: writes, writes: writes}, nil
	}

	reads, err := NewPostgresClient(ctx, read)
	if err != nil {
		writes.Close()
		return nil, err
	}

	return &ReadWriteClient{reads: reads, writes: writes}, nil
}

func (c *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return c.reads
}

func (c *ReadWriteClient) GetWritePool() *pgxpool.Pool {
	return c.writes
}

func (c *ReadWriteClient) Close() {
	if c.reads != c.writes {
		c.reads.Close()
	}
	c.writes.Close()
}
