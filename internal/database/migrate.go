package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates every table the two services use.  Statements are
// idempotent so both binaries can run it at startup against the same
// database.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var ddls = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL,
		phone_number VARCHAR(30) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'buyer',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(20) NOT NULL,
		subcategory VARCHAR(100) NOT NULL DEFAULT '',
		price DOUBLE NOT NULL,
		currency VARCHAR(10) NOT NULL DEFAULT 'Frw',
		district VARCHAR(100) NOT NULL DEFAULT '',
		city VARCHAR(100) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		seller_id BIGINT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		features JSON NULL,
		contact_phone VARCHAR(30) NOT NULL DEFAULT '',
		contact_email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_seller (seller_id),
		KEY idx_category_status (category, status),
		CONSTRAINT fk_items_seller FOREIGN KEY (seller_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS item_images (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		item_id BIGINT UNSIGNED NOT NULL,
		url VARCHAR(500) NOT NULL,
		KEY idx_item (item_id),
		CONSTRAINT fk_images_item FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		item_id BIGINT UNSIGNED NOT NULL,
		check_in_date DATE NOT NULL,
		check_out_date DATE NOT NULL,
		total_price DOUBLE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		additional_requests TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_user (user_id),
		KEY idx_item (item_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_item FOREIGN KEY (item_id) REFERENCES items(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS theaters (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		location VARCHAR(200) NOT NULL,
		total_seats INT UNSIGNED NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		theater_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(200) NOT NULL,
		url VARCHAR(500) NOT NULL DEFAULT '',
		price DOUBLE NOT NULL,
		rating DOUBLE NOT NULL DEFAULT 0,
		KEY idx_theater (theater_id),
		CONSTRAINT fk_movies_theater FOREIGN KEY (theater_id) REFERENCES theaters(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS showtimes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id BIGINT UNSIGNED NOT NULL,
		label VARCHAR(100) NOT NULL,
		KEY idx_movie (movie_id),
		CONSTRAINT fk_showtimes_movie FOREIGN KEY (movie_id) REFERENCES movies(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS showtime_seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		showtime_id BIGINT UNSIGNED NOT NULL,
		seat_no INT UNSIGNED NOT NULL,
		is_booked TINYINT(1) NOT NULL DEFAULT 0,
		version INT UNSIGNED NOT NULL DEFAULT 1,
		UNIQUE KEY uniq_showtime_seat (showtime_id, seat_no),
		CONSTRAINT fk_seats_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS carts (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		UNIQUE KEY uniq_user (user_id),
		CONSTRAINT fk_carts_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS cart_entries (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		cart_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		showtime_id BIGINT UNSIGNED NOT NULL,
		movie_name VARCHAR(200) NOT NULL,
		price DOUBLE NOT NULL,
		location VARCHAR(200) NOT NULL DEFAULT '',
		show_time VARCHAR(100) NOT NULL,
		KEY idx_cart (cart_id),
		CONSTRAINT fk_entries_cart FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS cart_entry_seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		cart_entry_id BIGINT UNSIGNED NOT NULL,
		seat_no INT UNSIGNED NOT NULL,
		KEY idx_entry (cart_entry_id),
		CONSTRAINT fk_seats_cart_entry FOREIGN KEY (cart_entry_id) REFERENCES cart_entries(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		UNIQUE KEY uniq_user (user_id),
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS ticket_entries (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ticket_id BIGINT UNSIGNED NOT NULL,
		movie_name VARCHAR(200) NOT NULL,
		price DOUBLE NOT NULL,
		location VARCHAR(200) NOT NULL DEFAULT '',
		show_time VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_ticket (ticket_id),
		CONSTRAINT fk_entries_ticket FOREIGN KEY (ticket_id) REFERENCES tickets(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS ticket_entry_seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ticket_entry_id BIGINT UNSIGNED NOT NULL,
		seat_no INT UNSIGNED NOT NULL,
		is_booked TINYINT(1) NOT NULL DEFAULT 1,
		KEY idx_entry (ticket_entry_id),
		CONSTRAINT fk_seats_ticket_entry FOREIGN KEY (ticket_entry_id) REFERENCES ticket_entries(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}
