package database

// Catalog queries
const (
	ListDishesSQL = `
		SELECT id, name, price_cents, available, created_at, updated_at
		FROM dishes
		ORDER BY name ASC`

	GetDishSQL = `
		SELECT id, name, price_cents, available, created_at, updated_at
		FROM dishes WHERE id = $1`

	ListTablesSQL = `
		SELECT id, name, seats, is_active, created_at, updated_at
		FROM restaurant_tables
		ORDER BY id ASC`

	GetTableSQL = `
		SELECT id, name, seats, is_active, created_at, updated_at
		FROM restaurant_tables WHERE id = $1`

	ListActiveTablesSQL = `
		SELECT id, name, seats, is_active, created_at, updated_at
		FROM restaurant_tables
		WHERE is_active
		ORDER BY id ASC`
)

// Reservation queries
const (
	GetBookedTableIDsSQL = `
		SELECT table_id FROM reservations
		WHERE reservation_date = $1::date
		  AND reservation_time = $2::time
		  AND status IN ('pending', 'confirmed')`

	SlotTakenSQL = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE table_id = $1
			  AND reservation_date = $2::date
			  AND reservation_time = $3::time
			  AND status <> 'cancelled'
		)`

	InsertReservationSQL = `
		INSERT INTO reservations
			(user_id, user_name, user_email, table_id, guest_count, reservation_date, reservation_time, status)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::time, $8)
		RETURNING id, reserved_at`

	GetReservationSQL = `
		SELECT id, user_id, user_name, user_email, table_id, guest_count,
			   to_char(reservation_date, 'YYYY-MM-DD'),
			   to_char(reservation_time, 'HH24:MI'),
			   status, reserved_at
		FROM reservations WHERE id = $1`

	ListReservationsSQL = `
		SELECT id, user_id, user_name, user_email, table_id, guest_count,
			   to_char(reservation_date, 'YYYY-MM-DD'),
			   to_char(reservation_time, 'HH24:MI'),
			   status, reserved_at
		FROM reservations`

	UpdateReservationStatusSQL = `
		UPDATE reservations SET status = $1, updated_at = NOW()
		WHERE id = $2`

	DeleteReservationSQL = `
		DELETE FROM reservations WHERE id = $1`

	CancelOwnReservationSQL = `
		UPDATE reservations SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
		RETURNING id`

	ReservationStatisticsSQL = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE reservation_date = CURRENT_DATE),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE reservation_date >= CURRENT_DATE AND status IN ('pending', 'confirmed'))
		FROM reservations`
)

// Order queries
const (
	InsertOrderLineSQL = `
		INSERT INTO orders
			(order_code, user_id, dish_id, group_id, customer_name, customer_address,
			 quantity, unit_price_cents, delivery_fee_cents, total_cents, payment, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	selectOrderLineSQL = `
		SELECT o.id, o.order_code, o.user_id, o.dish_id, d.name, o.group_id,
			   o.customer_name, o.customer_address, o.quantity, o.unit_price_cents,
			   o.delivery_fee_cents, o.total_cents, o.payment, COALESCE(o.notes, ''),
			   o.status, o.created_at
		FROM orders o
		JOIN dishes d ON d.id = o.dish_id`

	GetOrderLineSQL = selectOrderLineSQL + `
		WHERE o.id = $1`

	ListGroupLinesSQL = selectOrderLineSQL + `
		WHERE o.group_id = $1
		ORDER BY o.id ASC`

	ListUserLinesSQL = selectOrderLineSQL + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`

	ListLinesByStatusSQL = selectOrderLineSQL + `
		WHERE o.status = $1
		ORDER BY o.created_at DESC`

	UpdateOrderLineStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2`

	CancelOwnOrderLineSQL = `
		UPDATE orders SET status = 'Cancelled', updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'Pending'
		RETURNING id`
)
