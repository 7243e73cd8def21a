package mysql

const createAdminsSQL = `
CREATE TABLE IF NOT EXISTS admins (
  username      VARCHAR(64)  COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
  email         VARCHAR(255) NOT NULL,
  full_name     VARCHAR(255) NOT NULL,
  position      VARCHAR(255) NOT NULL DEFAULT '',
  registered_at VARCHAR(32)  NOT NULL,
  password_hash VARBINARY(255) NOT NULL,
  created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) DEFAULT CHARSET = utf8mb4
`

// Plain INSERT: a duplicate username surfaces as error 1062.
const insertAdminSQL = `
INSERT INTO admins
  (username, email, full_name, position, registered_at, password_hash)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const getAdminSQL = `
SELECT username, email, full_name, position, registered_at, password_hash
FROM admins
WHERE username = ?
`
