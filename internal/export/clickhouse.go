package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowScope/internal/config"
	"FlowScope/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS flow_records (
    ExportedAt  DateTime,
    Timestamp   Float64,
    Src         String,
    Dst         String,
    SrcPort     Int32,
    DstPort     Int32,
    Protocol    Int32,
    Bytes       Int64,
    Packets     Int64,
    TCPFlags    String,
    DNSQName    String,
    DNSRCode    String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(ExportedAt)
ORDER BY (ExportedAt, Src);
`

// ClickHouseWriter mirrors exported result sets into a ClickHouse table.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the flow_records
// table exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	return conn, nil
}

// Write batch-inserts flows into flow_records, stamped with the export time.
func (w *ClickHouseWriter) Write(ctx context.Context, flows []*model.Flow) error {
	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO flow_records")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	exportedAt := time.Now()
	for _, f := range flows {
		err = batch.Append(
			exportedAt,
			f.Timestamp,
			f.Src,
			f.Dst,
			int32(f.SrcPort),
			int32(f.DstPort),
			int32(f.Protocol),
			f.Bytes,
			f.Packets,
			f.TCPFlags,
			f.DNSQName,
			f.DNSRCode,
		)
		if err != nil {
			return fmt.Errorf("failed to append flow to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	log.Printf("Mirrored %d flow records to ClickHouse", len(flows))
	return nil
}

// Close releases the ClickHouse connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}
