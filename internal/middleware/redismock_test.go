package middleware_test

import (
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
)

type redismockClient struct {
	Client *redis.Client
	Mock   redismock.ClientMock
}

func newRedisMock() *redismockClient {
	db, mock := redismock.NewClientMock()
	return &redismockClient{Client: db, Mock: mock}
}
