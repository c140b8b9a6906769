package storage

var pgMigration = []string{
	`CREATE TYPE position_type AS ENUM ('featured', 'left', 'center', 'right')`,
	`CREATE TABLE video (
id uuid PRIMARY KEY,
youtube_url TEXT NOT NULL,
custom_headline VARCHAR(255) NOT NULL,
position_type position_type NOT NULL,
category VARCHAR(255) NOT NULL DEFAULT '',
thumbnail_url TEXT NOT NULL DEFAULT '',
description TEXT NOT NULL DEFAULT '',
created_at TIMESTAMPTZ NOT NULL,
scheduled_at TIMESTAMPTZ
)`,
	`CREATE INDEX video_position_created_at ON video (position_type, created_at DESC)`,
	`CREATE TABLE waitlist (
id uuid PRIMARY KEY,
name VARCHAR(255) NOT NULL,
email VARCHAR(255) NOT NULL DEFAULT '',
channel_url TEXT NOT NULL,
created_at TIMESTAMPTZ NOT NULL
)`,
}
