package order

const orderColumns = `order_id, customer_id, order_date`

const getAllOrdersSQL = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY order_id
`

const getOrderSQL = `
SELECT ` + orderColumns + `
FROM orders
WHERE order_id = ?
`

const createOrderSQL = `
INSERT INTO orders (
    order_id, customer_id, order_date
) VALUES (?, ?, ?)
RETURNING order_id
`

const createOrderAutoIDSQL = `
INSERT INTO orders (
    customer_id, order_date
) VALUES (?, ?)
RETURNING order_id
`
