package store

import (
	"context"
	"database/sql"
	"time"
)

// Generation: метаданные одного вызова модели. Байты загрузки не храним,
// только MIME, размер и хэш.
type Generation struct {
	ID         int64
	CreatedAt  time.Time
	RequestID  string
	Endpoint   string
	Model      string
	Prompt     string
	UploadMIME string
	UploadSize int
	UploadHash string
	Output     string
	StatusCode int
	Error      string
	Duration   time.Duration
}

// Recorder пишет историю генераций.
type Recorder interface {
	Record(ctx context.Context, g Generation) error
}

// Nop: история выключена.
type Nop struct{}

func (Nop) Record(context.Context, Generation) error { return nil }

type GenerationRepo struct{ DB *sql.DB }

func NewGenerationRepo(db *sql.DB) *GenerationRepo { return &GenerationRepo{DB: db} }

const schema = `
create table if not exists generations (
	id           bigserial primary key,
	created_at   timestamptz not null default now(),
	request_id   text not null default '',
	endpoint     text not null,
	model        text not null,
	prompt       text not null default '',
	upload_mime  text not null default '',
	upload_size  integer not null default 0,
	upload_hash  text not null default '',
	output       text not null default '',
	status_code  integer not null,
	error        text not null default '',
	duration_ms  bigint not null default 0
);
create index if not exists generations_created_at_idx on generations(created_at desc);`

func (r *GenerationRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

func (r *GenerationRepo) Record(ctx context.Context, g Generation) error {
	const q = `
insert into generations(request_id, endpoint, model, prompt, upload_mime, upload_size, upload_hash,
                        output, status_code, error, duration_ms)
values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.DB.ExecContext(ctx, q,
		g.RequestID, g.Endpoint, g.Model, g.Prompt, g.UploadMIME, g.UploadSize, g.UploadHash,
		g.Output, g.StatusCode, g.Error, g.Duration.Milliseconds())
	return err
}

// Recent возвращает последние limit записей, новые первыми.
func (r *GenerationRepo) Recent(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
select id, created_at, request_id, endpoint, model, prompt, upload_mime, upload_size, upload_hash,
       output, status_code, error, duration_ms
from generations
order by created_at desc
limit $1`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var (
			g  Generation
			ms int64
		)
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.RequestID, &g.Endpoint, &g.Model, &g.Prompt,
			&g.UploadMIME, &g.UploadSize, &g.UploadHash, &g.Output, &g.StatusCode, &g.Error, &ms); err != nil {
			return nil, err
		}
		g.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, g)
	}
	return out, rows.Err()
}
