package sqlinline

const QSelectUserByID = `--sql 3f2c8d1a-74b5-4e0a-9c3d-51a2e8f7b604
select id, email, name, locale, role, plan, created_at, updated_at
from users
where id = $1::uuid;
`

const QSelectUserByEmail = `--sql b91d4a77-20c3-4f6e-8d15-efc92a34b810
select id, email, name, locale, role, plan, created_at, updated_at
from users
where lower(email) = lower($1::text);
`

const QUpdateUserPlan = `--sql 6a05e3cf-9d82-47bb-a1f4-37c6d510e92b
update users
set plan = $2::text, updated_at = now()
where id = $1::uuid
returning id, email, name, locale, role, plan, created_at, updated_at;
`
