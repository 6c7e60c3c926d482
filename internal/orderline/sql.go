package orderline

const orderLineColumns = `order_id, product_id, quantity, unit_price`

const getAllOrderLinesSQL = `
SELECT ` + orderLineColumns + `
FROM order_line
ORDER BY order_id, product_id
`

const getOrderLinesByOrderSQL = `
SELECT ` + orderLineColumns + `
FROM order_line
WHERE order_id = ?
ORDER BY product_id
`

const createOrderLineSQL = `
INSERT INTO order_line (
    order_id, product_id, quantity, unit_price
) VALUES (?, ?, ?, ?)
`
