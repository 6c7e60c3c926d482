package customer

// customerColumns is the single column list every read maps from.
const customerColumns = `customer_id, name, email`

const getAllCustomersSQL = `
SELECT ` + customerColumns + `
FROM customer
ORDER BY customer_id
`

const getCustomerSQL = `
SELECT ` + customerColumns + `
FROM customer
WHERE customer_id = ?
`

const searchCustomersSQL = `
SELECT ` + customerColumns + `
FROM customer
WHERE CAST(customer_id AS TEXT) LIKE ?
   OR LOWER(name) LIKE LOWER(?)
   OR LOWER(email) LIKE LOWER(?)
ORDER BY customer_id
`

const createCustomerSQL = `
INSERT INTO customer (
    customer_id, name, email
) VALUES (?, ?, ?)
RETURNING customer_id
`

const createCustomerAutoIDSQL = `
INSERT INTO customer (
    name, email
) VALUES (?, ?)
RETURNING customer_id
`

const updateCustomerSQL = `
UPDATE customer
SET name = ?, email = ?
WHERE customer_id = ?
`

const deleteCustomerSQL = `
DELETE FROM customer
WHERE customer_id = ?
`
