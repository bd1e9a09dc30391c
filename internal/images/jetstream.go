package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStream keeps images in a NATS JetStream object store bucket. The app streams them back
// under URLPrefix.
type JetStream struct {
	conn      *nats.Conn
	store     jetstream.ObjectStore
	URLPrefix string
}

func NewJetStream(ctx context.Context, natsURL, bucket, urlPrefix string) (*JetStream, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	store, err := js.ObjectStore(ctx, bucket)
	if err != nil {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      bucket,
			Description: "Product images",
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("object store %s: %w", bucket, err)
		}
	}
	return &JetStream{conn: conn, store: store, URLPrefix: urlPrefix}, nil
}

func (j *JetStream) Put(ctx context.Context, key string, data []byte, contentType string) error {
	meta := jetstream.ObjectMeta{
		Name:    key,
		Headers: nats.Header{"Content-Type": []string{contentType}},
	}
	_, err := j.store.Put(ctx, meta, bytes.NewReader(data))
	return err
}

func (j *JetStream) URL(ctx context.Context, key string) (string, error) {
	if _, err := j.store.GetInfo(ctx, key); err != nil {
		return "", notFound(err)
	}
	return j.URLPrefix + "/" + key, nil
}

func (j *JetStream) Delete(ctx context.Context, key string) error {
	return notFound(j.store.Delete(ctx, key))
}

// Open streams a stored image and reports its content type.
func (j *JetStream) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	res, err := j.store.Get(ctx, key)
	if err != nil {
		return nil, "", notFound(err)
	}
	info, err := res.Info()
	if err != nil {
		res.Close()
		return nil, "", err
	}
	ct := "application/octet-stream"
	if info.Headers != nil && info.Headers.Get("Content-Type") != "" {
		ct = info.Headers.Get("Content-Type")
	}
	return res, ct, nil
}

func (j *JetStream) Close() {
	if j.conn != nil {
		j.conn.Close()
	}
}

func notFound(err error) error {
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return ErrAssetNotFound
	}
	return err
}
