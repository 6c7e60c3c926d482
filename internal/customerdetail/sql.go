package customerdetail

const detailColumns = `customer_id, address, phone, notes`

const getAllDetailsSQL = `
SELECT ` + detailColumns + `
FROM customer_detail
ORDER BY customer_id
`

const getDetailSQL = `
SELECT ` + detailColumns + `
FROM customer_detail
WHERE customer_id = ?
`

const createDetailSQL = `
INSERT INTO customer_detail (
    customer_id, address, phone, notes
) VALUES (?, ?, ?, ?)
`

const updateDetailSQL = `
UPDATE customer_detail
SET address = ?, phone = ?, notes = ?
WHERE customer_id = ?
`

const deleteDetailSQL = `
DELETE FROM customer_detail
WHERE customer_id = ?
`
