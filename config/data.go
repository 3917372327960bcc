package config

import (
	"time"

	"github.com/spf13/viper"
)

// LocalMongoURI is the fixed local fallback address for the document store.
const LocalMongoURI = "mongodb://127.0.0.1:27017/algohub"

// Data represents the data layer configuration.
type Data struct {
	MongoDB *MongoDB
	Redis   *Redis
}

// MongoDB document store config struct
type MongoDB struct {
	URI      string
	Database string
}

// Redis revocation cache config struct
type Redis struct {
	Addr         string
	Username     string
	Password     string
	Db           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		MongoDB: getMongoDBConfig(v),
		Redis:   getRedisConfig(v),
	}
}

func getMongoDBConfig(v *viper.Viper) *MongoDB {
	uri := v.GetString("data.mongodb.uri")
	if uri == "" {
		uri = LocalMongoURI
	}
	database := v.GetString("data.mongodb.database")
	if database == "" {
		database = "algohub"
	}
	return &MongoDB{
		URI:      uri,
		Database: database,
	}
}

func getRedisConfig(v *viper.Viper) *Redis {
	return &Redis{
		Addr:         v.GetString("data.redis.addr"),
		Username:     v.GetString("data.redis.username"),
		Password:     v.GetString("data.redis.password"),
		Db:           v.GetInt("data.redis.db"),
		DialTimeout:  v.GetDuration("data.redis.dial_timeout"),
		ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
		WriteTimeout: v.GetDuration("data.redis.write_timeout"),
	}
}
