package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageDynamo = "dynamo"
	StorageMongo  = "mongo"

	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Config is read from the function's environment. Every key maps to the
// upper-cased environment variable of the same name.
type Config struct {
	LogFormat string
	LogLevel  string

	AWSRegion string

	StorageDriver          string
	NotificationsTableName string
	UsersTableName         string
	MongoURI               string
	MongoDBName            string

	Mail MailConfig

	FCMProjectID       string
	FCMCredentialsJSON string
}

type MailConfig struct {
	Transport   string
	Service     string
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	SendForReal bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_driver", StorageDynamo)
	v.SetDefault("notifications_table_name", "notification")
	v.SetDefault("users_table_name", "users")
	v.SetDefault("mongodb_dbname", "courier")
	v.SetDefault("mail_transport", TransportSMTP)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("actually_send_emails", true)
}

// Load reads configuration from the environment and validates the parts every function needs.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		LogFormat: v.GetString("log_format"),
		LogLevel:  v.GetString("log_level"),
		AWSRegion: v.GetString("aws_region"),

		StorageDriver:          strings.ToLower(v.GetString("storage_driver")),
		NotificationsTableName: v.GetString("notifications_table_name"),
		UsersTableName:         v.GetString("users_table_name"),
		MongoURI:               v.GetString("mongodb_uri"),
		MongoDBName:            v.GetString("mongodb_dbname"),

		Mail: MailConfig{
			Transport:   strings.ToLower(v.GetString("mail_transport")),
			Service:     strings.ToLower(v.GetString("mail_service")),
			Host:        v.GetString("smtp_host"),
			Port:        v.GetInt("smtp_port"),
			User:        v.GetString("smtp_user"),
			Password:    v.GetString("smtp_password"),
			FromAddress: v.GetString("mail_from_address"),
			SendForReal: v.GetBool("actually_send_emails"),
		},

		FCMProjectID:       v.GetString("fcm_project_id"),
		FCMCredentialsJSON: v.GetString("fcm_credentials_json"),
	}

	switch cfg.StorageDriver {
	case StorageDynamo, StorageMongo:
	default:
		return nil, fmt.Errorf("config: unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.Mail.Transport {
	case TransportSMTP, TransportSES:
	default:
		return nil, fmt.Errorf("config: unsupported MAIL_TRANSPORT %q", cfg.Mail.Transport)
	}

	return cfg, nil
}
