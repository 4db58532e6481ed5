package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/s3lite/objectstore/pkg/metadata"
	"github.com/s3lite/objectstore/pkg/storage"
)

var ts *testServer

func TestMain(m *testing.M) {
	ts = setupTestServer()
	code := m.Run()
	ts.cleanup()
	os.Exit(code)
}

// testServer holds the components needed for integration testing against a
// real HTTP listener and the AWS SDK as the client.
type testServer struct {
	tmpDir   string
	listener net.Listener
	srv      *http.Server
	client   *s3.Client
	ctx      context.Context
	meta     *metadata.Store
}

func setupTestServer() *testServer {
	tmpDir, err := os.MkdirTemp("", "objectstore-test-*")
	if err != nil {
		panic(err)
	}

	meta, err := metadata.Open(filepath.Join(tmpDir, "meta.db"))
	if err != nil {
		panic(err)
	}
	if err := meta.Migrate(); err != nil {
		panic(err)
	}

	store, err := storage.New(filepath.Join(tmpDir, "objects"), meta)
	if err != nil {
		panic(err)
	}

	handler := New(store)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}

	srv := &http.Server{Handler: handler}
	ctx := context.Background()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               "http://" + listener.Addr().String(),
			SigningRegion:     "us-east-1",
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(aws.AnonymousCredentials{}),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		panic(err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &testServer{
		tmpDir:   tmpDir,
		listener: listener,
		srv:      srv,
		client:   client,
		ctx:      ctx,
		meta:     meta,
	}
}

func (ts *testServer) cleanup() {
	ts.srv.Shutdown(ts.ctx)
	ts.listener.Close()
	ts.meta.Close()
	os.RemoveAll(ts.tmpDir)
}
