package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/akhmads/adscli/internal/client/repositories/metadata"
	"github.com/akhmads/adscli/internal/common"
	"github.com/akhmads/adscli/internal/cryptox"
	"github.com/akhmads/adscli/internal/dbx"
)

const (
	sealedFlagKey  = common.SessionStorageKey + ".sealed"
	storageVersion = 0
)

// record is the stored layout: the persisted subset plus a format version.
type record struct {
	State   Persisted `json:"state"`
	Version int       `json:"version"`
}

// MetadataPersister keeps the session in the local metadata table under
// common.SessionStorageKey. With a Sealer the record is encrypted at rest.
type MetadataPersister struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

func NewMetadataPersister(db *sql.DB, sealer *cryptox.Sealer) *MetadataPersister {
	return &MetadataPersister{db: db, sealer: sealer}
}

func (p *MetadataPersister) Load(ctx context.Context) (*Persisted, error) {
	repo := metadata.NewSQLiteRepository(p.db)

	blob, err := repo.Get(ctx, common.SessionStorageKey)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}

	flag, err := repo.Get(ctx, sealedFlagKey)
	if err != nil {
		return nil, err
	}
	sealed := string(flag) == "1"

	var rec record
	switch {
	case sealed && p.sealer == nil:
		return nil, fmt.Errorf("%w: session is sealed, set a passphrase", common.ErrorCorruptedSession)
	case sealed:
		if err := p.sealer.Open(blob, &rec); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorCorruptedSession, err)
		}
	default:
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorCorruptedSession, err)
		}
	}

	if rec.Version != storageVersion {
		return nil, fmt.Errorf("%w: unknown version %d", common.ErrorCorruptedSession, rec.Version)
	}
	return &rec.State, nil
}

func (p *MetadataPersister) Save(ctx context.Context, s Persisted) error {
	rec := record{State: s, Version: storageVersion}

	var (
		blob []byte
		err  error
		flag = []byte("0")
	)
	if p.sealer != nil {
		blob, err = p.sealer.Seal(rec)
		flag = []byte("1")
	} else {
		blob, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.SessionStorageKey, blob); err != nil {
			return err
		}
		return repo.Set(ctx, sealedFlagKey, flag)
	})
}
