package database

import (
	"context"
	"database/sql"
)

// DATETIME(3) keeps millisecond precision so timeline events written in
// the same second still order correctly.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name          VARCHAR(255)    NOT NULL,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          ENUM('admin','customer','factory') NOT NULL,
		created_at    DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at    DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id       BIGINT UNSIGNED NOT NULL,
		status        VARCHAR(32)     NOT NULL,
		customer_name VARCHAR(255)    NOT NULL,
		amount_cents  BIGINT UNSIGNED NOT NULL DEFAULT 0,
		details       TEXT            NOT NULL,
		suggestion    TEXT            NULL,
		created_at    DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updated_at    DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		KEY idx_orders_user (user_id),
		KEY idx_orders_status (status),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_timeline (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_id    BIGINT UNSIGNED NOT NULL,
		status      VARCHAR(32)     NOT NULL,
		description VARCHAR(512)    NOT NULL DEFAULT '',
		created_at  DATETIME(3)     NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (id),
		KEY idx_timeline_order (order_id, created_at),
		CONSTRAINT fk_timeline_order FOREIGN KEY (order_id) REFERENCES orders (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Bootstrap creates the three application tables when they do not exist
// yet. It is safe to run on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
