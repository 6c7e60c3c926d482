package product

const productColumns = `product_id, name, price`

const getAllProductsSQL = `
SELECT ` + productColumns + `
FROM product
ORDER BY product_id
`

const getProductSQL = `
SELECT ` + productColumns + `
FROM product
WHERE product_id = ?
`

const createProductSQL = `
INSERT INTO product (
    product_id, name, price
) VALUES (?, ?, ?)
RETURNING product_id
`

const createProductAutoIDSQL = `
INSERT INTO product (
    name, price
) VALUES (?, ?)
RETURNING product_id
`
